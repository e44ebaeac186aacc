package mock

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/quentinrf/tilt-monitor/internal/beacon"
	"github.com/quentinrf/tilt-monitor/internal/ports"
)

// FakeScanner synthesizes Tilt advertisements for development - no
// bluetooth hardware needed. Each configured color broadcasts on the
// interval with gravity and temperature wandering around a fermentation
// baseline, plus a little foreign traffic so the rejection path gets
// exercised too.
type FakeScanner struct {
	colors   []string
	interval time.Duration
	sensors  []*fakeSensor
}

type fakeSensor struct {
	deviceID string
	token    []byte
	tempF    float64
	gravity  float64 // stored as the raw x1000 value
}

// NewFakeScanner creates a scanner broadcasting the given colors.
// Unknown color names are ignored.
func NewFakeScanner(colors []string, interval time.Duration) *FakeScanner {
	s := &FakeScanner{colors: colors, interval: interval}
	for _, color := range colors {
		token, ok := beacon.IdentityToken(color)
		if !ok {
			continue
		}
		tokenBytes, _ := hex.DecodeString(token)
		s.sensors = append(s.sensors, &fakeSensor{
			deviceID: fmt.Sprintf("mock-%s", strings.ToLower(color)),
			token:    tokenBytes,
			tempF:    68,
			gravity:  1050,
		})
	}
	return s
}

// Scan emits one advertisement per sensor per interval until ctx is
// cancelled.
func (s *FakeScanner) Scan(ctx context.Context, handler ports.AdvertisementHandler) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, sensor := range s.sensors {
				sensor.step()
				handler(sensor.deviceID, sensor.frame(), -40-rand.Intn(50))
			}
			// Ambient non-Tilt broadcast.
			handler("mock-foreign", []byte{0x4C, 0x00, 0x10, 0x05, 0x0B, 0x10}, -80)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// step applies a small random walk, clamped to plausible brewing values.
func (f *fakeSensor) step() {
	f.tempF += (rand.Float64() - 0.5) * 1.0
	if f.tempF < 50 {
		f.tempF = 50
	}
	if f.tempF > 85 {
		f.tempF = 85
	}

	// Fermentation trends downward over time.
	f.gravity += (rand.Float64() - 0.55) * 1.0
	if f.gravity < 1000 {
		f.gravity = 1000
	}
	if f.gravity > 1100 {
		f.gravity = 1100
	}
}

// frame builds the 25-byte manufacturer payload.
func (f *fakeSensor) frame() []byte {
	tempF := uint16(f.tempF)
	gravity := uint16(f.gravity)

	data := make([]byte, 0, beacon.PayloadLength)
	data = append(data, 0x4C, 0x00, 0x02, 0x15)
	data = append(data, f.token...)
	data = append(data, byte(tempF>>8), byte(tempF))
	data = append(data, byte(gravity>>8), byte(gravity))
	data = append(data, 12) // twelve weeks on this battery
	return data
}
