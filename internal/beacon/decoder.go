// Package beacon decodes Tilt hydrometer iBeacon manufacturer payloads.
// It is pure: no I/O, no state, no clock.
package beacon

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// PayloadLength is the minimum (and for a Tilt, exact) manufacturer
// payload size: 4-byte prefix + 16-byte token + major + minor + tx power.
const PayloadLength = 25

const (
	// Apple's company identifier 0x004C, little-endian on the wire.
	companyIDByte0 = 0x4C
	companyIDByte1 = 0x00

	// iBeacon type marker.
	beaconType   = 0x02
	beaconLength = 0x15
)

// batteryPlaceholder is the legacy tx-power value older firmware sends
// before the weeks counter is populated. It falls outside the valid
// 0-152 range as well, but the two checks are independent historical
// artifacts and are kept separate on purpose.
const batteryPlaceholder = 0xC5

const maxBatteryWeeks = 152

// colorTable maps the 16-byte identity token (uppercase hex) to the
// sensor color, per the official Tilt documentation.
var colorTable = map[string]string{
	"A495BB10C5B14B44B5121370F02D74DE": "Red",
	"A495BB20C5B14B44B5121370F02D74DE": "Green",
	"A495BB30C5B14B44B5121370F02D74DE": "Black",
	"A495BB40C5B14B44B5121370F02D74DE": "Purple",
	"A495BB50C5B14B44B5121370F02D74DE": "Orange",
	"A495BB60C5B14B44B5121370F02D74DE": "Blue",
	"A495BB70C5B14B44B5121370F02D74DE": "Yellow",
	"A495BB80C5B14B44B5121370F02D74DE": "Pink",
}

// ColorUnknown is recorded when the identity token resolves to none of
// the known sensors. An unknown token is still a successful decode.
const ColorUnknown = "Unknown"

// IdentityToken returns the uppercase-hex identity token broadcast by
// the sensor of the given color, for building synthetic frames.
func IdentityToken(color string) (string, bool) {
	for token, c := range colorTable {
		if c == color {
			return token, true
		}
	}
	return "", false
}

// Decode parses a manufacturer payload into a Reading. It returns
// domain.ErrNotTiltBeacon for payloads that are too short or carry the
// wrong prefix; no distinction is made between foreign devices and
// corrupted broadcasts.
func Decode(data []byte) (domain.Reading, error) {
	if len(data) < PayloadLength {
		return domain.Reading{}, domain.ErrNotTiltBeacon
	}
	if data[0] != companyIDByte0 || data[1] != companyIDByte1 {
		return domain.Reading{}, domain.ErrNotTiltBeacon
	}
	if data[2] != beaconType || data[3] != beaconLength {
		return domain.Reading{}, domain.ErrNotTiltBeacon
	}

	token := strings.ToUpper(hex.EncodeToString(data[4:20]))
	color, ok := colorTable[token]
	if !ok {
		color = ColorUnknown
	}

	tempF := int(binary.BigEndian.Uint16(data[20:22]))
	gravity := float64(binary.BigEndian.Uint16(data[22:24])) / 1000.0
	txRaw := data[24]

	return domain.Reading{
		Color:           color,
		TemperatureF:    tempF,
		TemperatureC:    domain.FahrenheitToCelsius(float64(tempF)),
		SpecificGravity: gravity,
		BatteryWeeks:    batteryWeeks(txRaw),
		TxPowerRaw:      txRaw,
		TxPower:         int8(txRaw),
	}, nil
}

// batteryWeeks derives the optional weeks-since-battery-change counter
// from the tx-power byte.
func batteryWeeks(raw uint8) *int {
	if raw > maxBatteryWeeks {
		return nil
	}
	// Kept separate from the range check above: the placeholder is a
	// firmware compatibility rule, not a range rule.
	if raw == batteryPlaceholder {
		return nil
	}
	weeks := int(raw)
	return &weeks
}
