package domain

// Reading represents a single decoded Tilt hydrometer measurement.
// This is pure domain logic - no bluetooth, no HTTP, just business concepts.
// A Reading is immutable once constructed; invalid advertisements never
// produce one.
type Reading struct {
	// Color is the sensor identity resolved from the beacon's 16-byte
	// token ("Red", "Green", ...), or "Unknown" for unrecognized tokens.
	Color string

	// TemperatureF is the raw temperature field in degrees Fahrenheit.
	// The wire format carries any 16-bit value; no plausibility check
	// is applied.
	TemperatureF int

	// TemperatureC is derived once at decode time. Consumers use this
	// value directly rather than re-converting TemperatureF.
	TemperatureC float64

	// SpecificGravity is the density ratio, conventionally shown to
	// three decimals (e.g. 1.052).
	SpecificGravity float64

	// BatteryWeeks is the weeks-since-battery-change counter, nil when
	// the sensor reports the legacy placeholder or an out-of-range value.
	BatteryWeeks *int

	// TxPowerRaw is the trailing payload byte as transmitted.
	TxPowerRaw uint8

	// TxPower is the two's-complement reading of the same byte, in dBm.
	TxPower int8
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5.0 / 9.0
}

// RSSIUnavailable is the reserved signal-strength value meaning the
// scanner could not measure RSSI for this advertisement.
const RSSIUnavailable = 127

// NormalizeSignal maps a raw scanner RSSI to an optional value,
// treating the reserved 127 sentinel as absent.
func NormalizeSignal(rssi int) *int {
	if rssi == RSSIUnavailable {
		return nil
	}
	v := rssi
	return &v
}
