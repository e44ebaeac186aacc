// Package console renders the live device table to a terminal, the
// classic way to watch a fermentation from an ssh session.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/tilt-monitor/internal/domain"
)

// clearScreen moves the cursor home and wipes the terminal.
const clearScreen = "\033[2J\033[H"

// Renderer periodically re-renders the full device table from registry
// snapshots. It never blocks ingestion; each render is an independent
// point-in-time read.
type Renderer struct {
	registry domain.DeviceRegistry
	interval time.Duration
	out      io.Writer
}

// NewRenderer creates a renderer writing to stdout.
func NewRenderer(registry domain.DeviceRegistry, interval time.Duration) *Renderer {
	return &Renderer{
		registry: registry,
		interval: interval,
		out:      os.Stdout,
	}
}

// Start re-renders every interval until ctx is cancelled.
func (r *Renderer) Start(ctx context.Context) {
	log.Info().Dur("interval", r.interval).Msg("starting console renderer")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.renderOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.renderOnce(ctx)

		case <-ctx.Done():
			log.Info().Msg("stopping console renderer")
			return
		}
	}
}

func (r *Renderer) renderOnce(ctx context.Context) {
	records, err := r.registry.SnapshotAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to snapshot registry")
		return
	}

	fmt.Fprint(r.out, clearScreen)
	fmt.Fprintln(r.out, "=== Tilt Hydrometer Data ===")
	fmt.Fprintf(r.out, "%-36s | %-8s | %-9s | %-8s | %-8s | %-12s | %-7s | %-19s | %s\n",
		"Peripheral ID", "Color", "Temp (F)", "Temp (C)", "Gravity", "Batt (weeks)", "RSSI", "Last Seen", "Raw Data")
	fmt.Fprintln(r.out, strings.Repeat("-", 130))

	for _, record := range records {
		fmt.Fprintf(r.out, "%-36s | %-8s | %-9d | %-8.1f | %-8.3f | %-12s | %-7s | %-19s | %s\n",
			record.DeviceID,
			record.Reading.Color,
			record.Reading.TemperatureF,
			record.Reading.TemperatureC,
			record.Reading.SpecificGravity,
			optionalInt(record.Reading.BatteryWeeks),
			optionalInt(record.Signal),
			record.LastSeen.Format("2006-01-02 15:04:05"),
			record.RawHex)
	}

	fmt.Fprintln(r.out, "\n(Press Ctrl+C to stop)")
}

func optionalInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}
