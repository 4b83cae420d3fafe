package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subburn/internal/api"
	"subburn/internal/config"
	"subburn/internal/ffmpeg"
	"subburn/internal/jobs"
	"subburn/internal/logging"
	"subburn/internal/media"
	"subburn/internal/media/probe"
)

const shutdownGrace = 10 * time.Second

// Daemon runs the burn-in service: one HTTP listener, one job manager, one
// reaper loop, guarded by a lock file so only a single instance serves the
// configured directories.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   jobs.Store
	manager *jobs.Manager
	reaper  *jobs.Reaper
	server  *http.Server

	lockPath string
	lock     *flock.Flock
}

// New constructs a daemon with its dependencies wired from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	manager := jobs.NewManager(
		store,
		media.NewResolver(cfg.Paths.UploadDir),
		probe.New(cfg.FFprobeBinary()),
		ffmpeg.NewRunner(cfg.FFmpegBinary(), logger),
		cfg,
		logger,
	)
	reaper := jobs.NewReaper(
		store,
		time.Duration(cfg.Jobs.RetentionHours)*time.Hour,
		time.Duration(cfg.Jobs.CleanupIntervalMinutes)*time.Minute,
		logger,
	)

	lockPath := filepath.Join(cfg.Paths.LogDir, "subburnd.lock")
	return &Daemon{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "daemon"),
		store:   store,
		manager: manager,
		reaper:  reaper,
		server: &http.Server{
			Addr:              cfg.Paths.Bind,
			Handler:           api.New(manager, cfg, logger).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// OpenStore opens the job store backend the configuration selects.
func OpenStore(cfg *config.Config) (jobs.Store, error) {
	switch cfg.Jobs.Backend {
	case "sqlite":
		store, err := jobs.OpenSQLite(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
		if err != nil {
			return nil, fmt.Errorf("open job store: %w", err)
		}
		return store, nil
	default:
		return jobs.NewMemoryStore(), nil
	}
}

// Manager exposes the job manager for embedding callers (the one-shot CLI).
func (d *Daemon) Manager() *jobs.Manager {
	return d.manager
}

// Run serves until ctx is cancelled, then drains in-flight pipelines and
// shuts the listener down.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another subburn daemon is already running (lock %s)", d.lockPath)
	}
	defer func() {
		_ = d.lock.Unlock()
	}()

	if recovered, err := d.manager.RecoverStale(ctx); err != nil {
		d.logger.Warn("recover stale jobs", logging.Error(err))
	} else if recovered > 0 {
		d.logger.Info("failed jobs left by previous run", logging.Int("count", recovered))
	}

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go d.reaper.Run(reaperCtx)

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("listening", logging.String("bind", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	d.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("http shutdown", logging.Error(err))
	}
	d.manager.Wait()
	return <-errCh
}

// Close releases the daemon's resources.
func (d *Daemon) Close() error {
	return d.store.Close()
}
