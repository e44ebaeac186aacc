package domain

import (
	"context"
	"time"
)

// DeviceRegistry defines operations for tracking the latest reading and
// bounded history per device.
// This is a PORT - adapters (Memory) will implement it.
type DeviceRegistry interface {
	// Upsert replaces the record for record.DeviceID wholesale and
	// appends one HistorySample derived from it, creating the history
	// buffer on first sight of the identifier. The replacement and the
	// append are atomic with respect to concurrent snapshot readers.
	Upsert(ctx context.Context, record DeviceRecord) error

	// SnapshotAll returns a point-in-time copy of every record, ordered
	// by first sight of each device (stable for display).
	SnapshotAll(ctx context.Context) ([]DeviceRecord, error)

	// HistoryOf returns a point-in-time copy of the device's samples,
	// oldest first. Unknown devices yield an empty slice, not an error.
	HistoryOf(ctx context.Context, deviceID string) ([]HistorySample, error)
}

// ReadingLog defines the append-only durable record of accepted readings.
// This is a PORT - adapters (logfile) will implement it. Appends are
// best-effort: a failure must never affect in-memory state.
type ReadingLog interface {
	Append(ctx context.Context, at time.Time, specificGravity, temperatureC float64) error
}
