package domain

import (
	"time"
)

// DeviceRecord is the latest accepted state of one physical hydrometer.
// Records are replaced wholesale on each accepted advertisement - there
// is no field-level merging between readings.
type DeviceRecord struct {
	// DeviceID is the opaque per-peripheral token supplied by the
	// scanner. It is stable for a scanning session and never parsed.
	DeviceID string

	Reading Reading

	// RawHex is the full manufacturer payload rendered as lowercase hex,
	// kept for display and debugging.
	RawHex string

	// Signal is the advertisement RSSI in dBm, nil when the scanner
	// reported it unavailable.
	Signal *int

	// LastSeen is when the advertisement carrying this record arrived.
	// Device absence is expressed by staleness of LastSeen; records are
	// never deleted.
	LastSeen time.Time
}

// HistorySample is one time-series point kept for charting.
type HistorySample struct {
	Time            time.Time
	TemperatureC    float64
	SpecificGravity float64
}
