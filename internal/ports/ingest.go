package ports

import (
	"context"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/tilt-monitor/internal/beacon"
	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// IngestOutcome reports what happened to one advertisement.
type IngestOutcome int

const (
	// OutcomeRejected means the payload was not a Tilt beacon; nothing
	// was recorded.
	OutcomeRejected IngestOutcome = iota

	// OutcomeStored means the registry was updated and the durable log
	// entry was queued.
	OutcomeStored

	// OutcomeStoredLogDropped means the registry was updated but the
	// durable log queue was full and the entry was discarded.
	OutcomeStoredLogDropped
)

// logQueueSize bounds pending durable-log entries. At one reading every
// ~2 seconds this absorbs several minutes of stalled disk.
const logQueueSize = 256

type logEntry struct {
	at              time.Time
	specificGravity float64
	temperatureC    float64
}

// Pipeline turns raw advertisements into registry updates and durable
// log lines. It is safe to call OnAdvertisement from the scanner's
// goroutine while presentation layers read registry snapshots.
type Pipeline struct {
	registry domain.DeviceRegistry
	readings domain.ReadingLog
	notifier UpdateNotifier

	entries     chan logEntry
	logFailures atomic.Uint64
	logDropped  atomic.Uint64

	now func() time.Time
}

// NewPipeline creates a pipeline. readings and notifier may be nil to
// disable durable logging or live push respectively.
func NewPipeline(registry domain.DeviceRegistry, readings domain.ReadingLog, notifier UpdateNotifier) *Pipeline {
	return &Pipeline{
		registry: registry,
		readings: readings,
		notifier: notifier,
		entries:  make(chan logEntry, logQueueSize),
		now:      time.Now,
	}
}

// OnAdvertisement ingests one raw advertisement. Payloads that are not
// Tilt beacons are dropped silently; that is normal ambient traffic.
// The durable log append is queued, never awaited, so a slow disk does
// not gate ingestion of subsequent advertisements.
func (p *Pipeline) OnAdvertisement(ctx context.Context, deviceID string, data []byte, rssi int) IngestOutcome {
	reading, err := beacon.Decode(data)
	if err != nil {
		return OutcomeRejected
	}

	record := domain.DeviceRecord{
		DeviceID: deviceID,
		Reading:  reading,
		RawHex:   hex.EncodeToString(data),
		Signal:   domain.NormalizeSignal(rssi),
		LastSeen: p.now(),
	}

	if err := p.registry.Upsert(ctx, record); err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to update registry")
		return OutcomeRejected
	}

	log.Debug().
		Str("device_id", deviceID).
		Str("color", reading.Color).
		Float64("gravity", reading.SpecificGravity).
		Float64("temp_c", reading.TemperatureC).
		Msg("accepted reading")

	if p.notifier != nil {
		p.notifier.NotifyUpdate(record)
	}

	if p.readings == nil {
		return OutcomeStored
	}

	entry := logEntry{
		at:              record.LastSeen,
		specificGravity: reading.SpecificGravity,
		temperatureC:    reading.TemperatureC,
	}
	select {
	case p.entries <- entry:
		return OutcomeStored
	default:
		p.logDropped.Add(1)
		log.Warn().Str("device_id", deviceID).Msg("reading log queue full, entry dropped")
		return OutcomeStoredLogDropped
	}
}

// Run drains queued durable log entries until ctx is cancelled. Append
// failures are logged and counted but never stop the drain; durability
// is best-effort.
func (p *Pipeline) Run(ctx context.Context) {
	log.Info().Msg("starting reading log drain")

	for {
		select {
		case entry := <-p.entries:
			if err := p.readings.Append(ctx, entry.at, entry.specificGravity, entry.temperatureC); err != nil {
				p.logFailures.Add(1)
				log.Error().Err(err).Msg("failed to append reading log")
			}

		case <-ctx.Done():
			log.Info().Msg("stopping reading log drain")
			return
		}
	}
}

// LogFailures reports how many durable log appends have failed since
// startup.
func (p *Pipeline) LogFailures() uint64 {
	return p.logFailures.Load()
}

// LogDropped reports how many entries were discarded because the log
// queue was full.
func (p *Pipeline) LogDropped() uint64 {
	return p.logDropped.Load()
}
