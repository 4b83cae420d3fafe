package jobs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subburn/internal/jobs"
)

func TestReaperRemovesExpiredJobsAndFiles(t *testing.T) {
	ctx := context.Background()
	store := jobs.NewMemoryStore()
	exportDir := t.TempDir()

	oldOutput := filepath.Join(exportDir, "old.mp4")
	if err := os.WriteFile(oldOutput, []byte("media"), 0o644); err != nil {
		t.Fatalf("write output fixture: %v", err)
	}

	old := seedJob("old", jobs.StatusCompleted, time.Now().UTC().Add(-2*time.Hour))
	old.OutputPath = oldOutput
	fresh := seedJob("fresh", jobs.StatusCompleted, time.Now().UTC())
	for _, job := range []*jobs.Job{old, fresh} {
		if err := store.Create(ctx, job); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	reaper := jobs.NewReaper(store, time.Hour, time.Minute, nil)
	reaper.Sweep(ctx)

	if job, _ := store.Get(ctx, "old"); job != nil {
		t.Fatal("expired job record survived the sweep")
	}
	if _, err := os.Stat(oldOutput); !os.IsNotExist(err) {
		t.Fatal("expired output file survived the sweep")
	}
	if job, _ := store.Get(ctx, "fresh"); job == nil {
		t.Fatal("fresh job reaped")
	}
}
