package janitor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Janitor periodically deletes old files from a directory.
type Janitor struct {
	dir          string
	interval     time.Duration
	maxAge       time.Duration
	reservations *Reservations
	logger       *slog.Logger

	now func() time.Time
}

// New creates a Janitor for dir. Files younger than maxAge and files in
// reservations are never deleted. reservations may be nil.
func New(dir string, interval, maxAge time.Duration, reservations *Reservations, logger *slog.Logger) *Janitor {
	if reservations == nil {
		reservations = NewReservations()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		dir:          dir,
		interval:     interval,
		maxAge:       maxAge,
		reservations: reservations,
		logger:       logger,
		now:          time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled. It always returns nil,
// so it can run in an errgroup next to the server.
func (j *Janitor) Run(ctx context.Context) error {
	if j.interval <= 0 {
		j.logger.Info("cleanup disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep deletes the regular files directly in the directory that are old
// enough and not reserved. It returns the number of deleted files.
// Subdirectories are left alone.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Error("cleanup failed", slog.String("dir", j.dir), slog.Any("error", err))
		return 0
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(j.dir, entry.Name())
		if j.reservations.Reserved(path) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			j.logger.Warn("cleanup could not remove file", slog.String("file", entry.Name()), slog.Any("error", err))
			continue
		}
		removed++
	}

	j.logger.Info("cleanup done", slog.String("dir", j.dir), slog.Int("removed", removed))
	return removed
}
