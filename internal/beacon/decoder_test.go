package beacon

import (
	"encoding/hex"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// buildPayload assembles a well-formed Tilt manufacturer payload.
func buildPayload(t *testing.T, token string, tempF, gravityRaw uint16, tx byte) []byte {
	t.Helper()

	tokenBytes, err := hex.DecodeString(token)
	if err != nil || len(tokenBytes) != 16 {
		t.Fatalf("bad token %q: %v", token, err)
	}

	data := []byte{0x4C, 0x00, 0x02, 0x15}
	data = append(data, tokenBytes...)
	data = append(data, byte(tempF>>8), byte(tempF))
	data = append(data, byte(gravityRaw>>8), byte(gravityRaw))
	data = append(data, tx)
	return data
}

func TestDecode_TooShort(t *testing.T) {
	for length := 0; length < PayloadLength; length++ {
		data := make([]byte, length)
		if _, err := Decode(data); !errors.Is(err, domain.ErrNotTiltBeacon) {
			t.Errorf("length %d: expected ErrNotTiltBeacon, got %v", length, err)
		}
	}
}

func TestDecode_WrongPrefix(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{"wrong company id first byte", func(d []byte) { d[0] = 0x4D }},
		{"wrong company id second byte", func(d []byte) { d[1] = 0x01 }},
		{"wrong beacon type", func(d []byte) { d[2] = 0x03 }},
		{"wrong beacon length marker", func(d []byte) { d[3] = 0x16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildPayload(t, "A495BB10C5B14B44B5121370F02D74DE", 68, 1010, 10)
			tt.mutate(data)
			if _, err := Decode(data); !errors.Is(err, domain.ErrNotTiltBeacon) {
				t.Errorf("expected ErrNotTiltBeacon, got %v", err)
			}
		})
	}
}

func TestDecode_KnownColors(t *testing.T) {
	tests := []struct {
		token string
		color string
	}{
		{"A495BB10C5B14B44B5121370F02D74DE", "Red"},
		{"A495BB20C5B14B44B5121370F02D74DE", "Green"},
		{"A495BB30C5B14B44B5121370F02D74DE", "Black"},
		{"A495BB40C5B14B44B5121370F02D74DE", "Purple"},
		{"A495BB50C5B14B44B5121370F02D74DE", "Orange"},
		{"A495BB60C5B14B44B5121370F02D74DE", "Blue"},
		{"A495BB70C5B14B44B5121370F02D74DE", "Yellow"},
		{"A495BB80C5B14B44B5121370F02D74DE", "Pink"},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			data := buildPayload(t, tt.token, 68, 1052, 12)
			reading, err := Decode(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reading.Color != tt.color {
				t.Errorf("got color %q, want %q", reading.Color, tt.color)
			}
			wantC := domain.FahrenheitToCelsius(68)
			if reading.TemperatureC != wantC {
				t.Errorf("got temperatureC %v, want %v", reading.TemperatureC, wantC)
			}
			if reading.SpecificGravity != 1.052 {
				t.Errorf("got gravity %v, want 1.052", reading.SpecificGravity)
			}
		})
	}
}

func TestDecode_UnknownToken(t *testing.T) {
	data := buildPayload(t, strings.Repeat("AB", 16), 68, 1010, 12)
	reading, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Color != ColorUnknown {
		t.Errorf("got color %q, want %q", reading.Color, ColorUnknown)
	}
}

func TestDecode_BatteryWeeks(t *testing.T) {
	tests := []struct {
		name string
		tx   byte
		want *int
	}{
		{"zero weeks", 0, intPtr(0)},
		{"mid range", 90, intPtr(90)},
		{"top of range", 152, intPtr(152)},
		{"just above range", 153, nil},
		{"placeholder value", 0xC5, nil},
		{"max byte", 0xFF, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildPayload(t, "A495BB10C5B14B44B5121370F02D74DE", 68, 1010, tt.tx)
			reading, err := Decode(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && reading.BatteryWeeks != nil:
				t.Errorf("got battery weeks %d, want absent", *reading.BatteryWeeks)
			case tt.want != nil && reading.BatteryWeeks == nil:
				t.Errorf("got absent battery weeks, want %d", *tt.want)
			case tt.want != nil && *reading.BatteryWeeks != *tt.want:
				t.Errorf("got battery weeks %d, want %d", *reading.BatteryWeeks, *tt.want)
			}
			if reading.TxPowerRaw != tt.tx {
				t.Errorf("got tx raw %d, want %d", reading.TxPowerRaw, tt.tx)
			}
			if reading.TxPower != int8(tt.tx) {
				t.Errorf("got tx signed %d, want %d", reading.TxPower, int8(tt.tx))
			}
		})
	}
}

func TestDecode_ExtremeTemperatures(t *testing.T) {
	// The wire format accepts any 16-bit value; implausible readings
	// pass through untouched.
	data := buildPayload(t, "A495BB10C5B14B44B5121370F02D74DE", 0xFFFF, 1000, 10)
	reading, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.TemperatureF != 65535 {
		t.Errorf("got temperatureF %d, want 65535", reading.TemperatureF)
	}
}

func TestDecode_ReferenceVector(t *testing.T) {
	raw, err := hex.DecodeString("4C000215A495BB10C5B14B44B5121370F02D74DE004603E85A")
	if err != nil {
		t.Fatalf("bad test vector: %v", err)
	}

	reading, decodeErr := Decode(raw)
	if decodeErr != nil {
		t.Fatalf("unexpected error: %v", decodeErr)
	}

	if reading.Color != "Red" {
		t.Errorf("got color %q, want Red", reading.Color)
	}
	if reading.TemperatureF != 70 {
		t.Errorf("got temperatureF %d, want 70", reading.TemperatureF)
	}
	if math.Abs(reading.TemperatureC-21.1) > 0.05 {
		t.Errorf("got temperatureC %v, want ~21.1", reading.TemperatureC)
	}
	if reading.SpecificGravity != 1.000 {
		t.Errorf("got gravity %v, want 1.000", reading.SpecificGravity)
	}
	if reading.TxPowerRaw != 0x5A {
		t.Errorf("got tx raw %#x, want 0x5a", reading.TxPowerRaw)
	}
	if reading.BatteryWeeks == nil || *reading.BatteryWeeks != 90 {
		t.Errorf("got battery weeks %v, want 90", reading.BatteryWeeks)
	}
}

func TestDecode_LongerPayloadAccepted(t *testing.T) {
	// Some stacks hand over trailing bytes after the beacon frame;
	// anything past byte 24 is ignored.
	data := buildPayload(t, "A495BB10C5B14B44B5121370F02D74DE", 68, 1010, 10)
	data = append(data, 0xDE, 0xAD)
	if _, err := Decode(data); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func intPtr(v int) *int {
	return &v
}
