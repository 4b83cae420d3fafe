// Package testsupport provides shared scaffolding for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"subburn/internal/config"
	"subburn/internal/jobs"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test
// and directories created, ready for pipeline use.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Bind = "127.0.0.1:0"
	cfg.Jobs.Backend = "memory"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithJobsBackend overrides the job store backend.
func WithJobsBackend(backend string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Jobs.Backend = backend
	}
}

// MustOpenStore opens a SQLite job store under the test's temp space and
// closes it when the test finishes.
func MustOpenStore(t testing.TB) *jobs.SQLiteStore {
	t.Helper()
	store, err := jobs.OpenSQLite(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
