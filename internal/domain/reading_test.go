package domain

import (
	"math"
	"testing"
)

func TestFahrenheitToCelsius(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want float64
	}{
		{"freezing", 32, 0},
		{"boiling", 212, 100},
		{"typical fermentation", 68, 20},
		{"reference reading", 70, 21.111111},
		{"below freezing", 14, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FahrenheitToCelsius(tt.f)
			if math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("FahrenheitToCelsius(%v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestNormalizeSignal(t *testing.T) {
	tests := []struct {
		name   string
		rssi   int
		absent bool
	}{
		{"typical signal", -70, false},
		{"strong signal", -30, false},
		{"zero is a real value", 0, false},
		{"sentinel means unavailable", RSSIUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSignal(tt.rssi)
			if tt.absent {
				if got != nil {
					t.Errorf("NormalizeSignal(%d) = %d, want absent", tt.rssi, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("NormalizeSignal(%d) = absent, want %d", tt.rssi, tt.rssi)
			}
			if *got != tt.rssi {
				t.Errorf("NormalizeSignal(%d) = %d, want %d", tt.rssi, *got, tt.rssi)
			}
		})
	}
}
