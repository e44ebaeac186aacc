// Package bluetooth adapts the host BLE stack to the scanner port.
package bluetooth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"

	"github.com/quentinrf/tilt-monitor/internal/ports"
)

// Scanner implements ports.Scanner on top of the OS bluetooth stack.
// It listens passively: advertisements only, no connections.
type Scanner struct {
	adapter *bluetooth.Adapter
}

// NewScanner enables the default host adapter.
func NewScanner() (*Scanner, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	return &Scanner{adapter: adapter}, nil
}

// Scan forwards every advertisement carrying manufacturer data to
// handler until ctx is cancelled. The manufacturer payload is rebuilt
// with its little-endian company identifier prefix, which is how the
// Tilt frame layout expects it. Duplicate reports for the same
// peripheral are deliberate; each one is a fresh reading.
func (s *Scanner) Scan(ctx context.Context, handler ports.AdvertisementHandler) error {
	go func() {
		<-ctx.Done()
		if err := s.adapter.StopScan(); err != nil {
			log.Warn().Err(err).Msg("failed to stop bluetooth scan")
		}
	}()

	log.Info().Msg("bluetooth scan started")

	err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		for _, element := range result.ManufacturerData() {
			payload := make([]byte, 0, 2+len(element.Data))
			payload = append(payload, byte(element.CompanyID), byte(element.CompanyID>>8))
			payload = append(payload, element.Data...)
			handler(result.Address.String(), payload, int(result.RSSI))
		}
	})
	if err != nil {
		return fmt.Errorf("bluetooth scan: %w", err)
	}
	return ctx.Err()
}
