package jobs

import (
	"context"
	"log/slog"
	"os"
	"time"

	"subburn/internal/logging"
)

// Reaper removes job records and their on-disk output after a retention
// window. Housekeeping only: correctness never depends on it running.
type Reaper struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewReaper builds a reaper over store.
func NewReaper(store Store, retention, interval time.Duration, logger *slog.Logger) *Reaper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reaper{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    logging.NewComponentLogger(logger, "reaper"),
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep removes one batch of expired jobs and their output files.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.retention)
	expired, err := r.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("delete expired jobs", logging.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	removedFiles := 0
	for _, job := range expired {
		if job.OutputPath == "" {
			continue
		}
		if err := os.Remove(job.OutputPath); err != nil {
			if !os.IsNotExist(err) {
				r.logger.Warn("remove expired output",
					logging.String(logging.FieldJobID, job.ID),
					logging.Error(err),
				)
			}
			continue
		}
		removedFiles++
	}
	r.logger.Info("reaped expired jobs",
		logging.Int("jobs", len(expired)),
		logging.Int("files", removedFiles),
	)
}
