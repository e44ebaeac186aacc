// Package logfile appends accepted readings to a plain-text CSV file.
// The file is the only durable output of the service and is meant to be
// imported into spreadsheets, so the format is fixed:
//
//	Timepoint,SG,Temp (°C)
//	02/14/2026 18:04:31,1.052,21.1
package logfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Header is the first line of a fresh log file.
const Header = "Timepoint,SG,Temp (°C)"

// timeLayout is the locale-stable MM/DD/YYYY HH:MM:SS rendering used
// for the Timepoint column.
const timeLayout = "01/02/2006 15:04:05"

// Writer implements domain.ReadingLog backed by a single growing file.
// Each append opens the file, repairs a missing trailing newline if the
// previous run crashed mid-write, and appends one line. Opening per
// append keeps the writer crash-tolerant at the cost of a few syscalls,
// which is nothing at one reading every couple of seconds.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter creates a writer for the given path. The file itself is
// created lazily on first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Append writes one reading line, creating the file with its header if
// absent.
func (w *Writer) Append(ctx context.Context, at time.Time, specificGravity, temperatureC float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open reading log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat reading log: %w", err)
	}

	if info.Size() == 0 {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	} else if err := healTrailingNewline(f, info.Size()); err != nil {
		return err
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek reading log: %w", err)
	}

	line := fmt.Sprintf("%s,%.3f,%.1f\n", at.Format(timeLayout), specificGravity, temperatureC)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append reading: %w", err)
	}
	return nil
}

// healTrailingNewline checks the last byte of a non-empty file and
// emits a newline if an earlier append was cut short, so the next line
// never merges into the previous one.
func healTrailingNewline(f *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return fmt.Errorf("read log tail: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.WriteAt([]byte{'\n'}, size); err != nil {
		return fmt.Errorf("repair log tail: %w", err)
	}
	return nil
}
