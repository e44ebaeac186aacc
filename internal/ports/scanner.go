package ports

import (
	"context"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// AdvertisementHandler receives one discovered advertisement: the
// scanner's opaque device identifier, the raw manufacturer payload, and
// the RSSI in dBm (127 when unavailable).
type AdvertisementHandler func(deviceID string, data []byte, rssi int)

// Scanner defines how raw advertisements reach the pipeline.
// This is a PORT - adapters (bluetooth, mock) will implement it.
type Scanner interface {
	// Scan delivers advertisements to handler until ctx is cancelled.
	// Handlers may be invoked from the scanner's own goroutine;
	// duplicates for the same device are expected and wanted.
	Scan(ctx context.Context, handler AdvertisementHandler) error
}

// UpdateNotifier is told about each accepted record, e.g. to push live
// updates to dashboard clients. Implementations must not block.
type UpdateNotifier interface {
	NotifyUpdate(record domain.DeviceRecord)
}
