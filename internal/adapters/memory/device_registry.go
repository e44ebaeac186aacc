package memory

import (
	"context"
	"sync"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// HistoryCapacity bounds the per-device sample buffer. At the sensor's
// ~2 second advertisement cadence this holds roughly two hours.
const HistoryCapacity = 3600

// DeviceRegistry implements domain.DeviceRegistry with in-memory storage.
// Devices are never evicted; the outer map is bounded in practice by the
// number of physical sensors.
type DeviceRegistry struct {
	mu      sync.RWMutex
	devices map[string]*deviceEntry
	order   []string // device IDs in first-seen order, for stable display
}

type deviceEntry struct {
	record  domain.DeviceRecord
	history []domain.HistorySample
}

// NewDeviceRegistry creates an empty registry.
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{
		devices: make(map[string]*deviceEntry),
	}
}

// Upsert replaces the device's record and appends one history sample.
// Both happen under one lock so snapshot readers never see a record and
// history that disagree.
func (r *DeviceRegistry) Upsert(ctx context.Context, record domain.DeviceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.devices[record.DeviceID]
	if !exists {
		entry = &deviceEntry{
			history: make([]domain.HistorySample, 0, HistoryCapacity),
		}
		r.devices[record.DeviceID] = entry
		r.order = append(r.order, record.DeviceID)
	}

	entry.record = record

	if len(entry.history) >= HistoryCapacity {
		// Drop the oldest sample before appending.
		entry.history = entry.history[1:]
	}
	entry.history = append(entry.history, domain.HistorySample{
		Time:            record.LastSeen,
		TemperatureC:    record.Reading.TemperatureC,
		SpecificGravity: record.Reading.SpecificGravity,
	})

	return nil
}

// SnapshotAll returns a copy of every record in first-seen order.
func (r *DeviceRegistry) SnapshotAll(ctx context.Context) ([]domain.DeviceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.DeviceRecord, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.devices[id].record)
	}
	return records, nil
}

// HistoryOf returns a copy of the device's samples, oldest first.
// Unknown devices yield an empty slice.
func (r *DeviceRegistry) HistoryOf(ctx context.Context, deviceID string) ([]domain.HistorySample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.devices[deviceID]
	if !exists {
		return nil, nil
	}

	samples := make([]domain.HistorySample, len(entry.history))
	copy(samples, entry.history)
	return samples, nil
}
