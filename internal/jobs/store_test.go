package jobs_test

import (
	"context"
	"testing"
	"time"

	"subburn/internal/jobs"
	"subburn/internal/testsupport"
)

func storeImplementations(t *testing.T) map[string]jobs.Store {
	t.Helper()
	return map[string]jobs.Store{
		"memory": jobs.NewMemoryStore(),
		"sqlite": testsupport.MustOpenStore(t),
	}
}

func seedJob(id string, status jobs.Status, updatedAt time.Time) *jobs.Job {
	return &jobs.Job{
		ID:        id,
		VideoID:   "vid-1",
		Status:    status,
		Output:    jobs.OutputOptions{Format: "mp4", Codec: "h264", Quality: "medium"},
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC()

			job := seedJob("job-1", jobs.StatusPending, now)
			if err := store.Create(ctx, job); err != nil {
				t.Fatalf("Create: %v", err)
			}

			loaded, err := store.Get(ctx, "job-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if loaded == nil {
				t.Fatal("job missing after create")
			}
			if loaded.Status != jobs.StatusPending || loaded.VideoID != "vid-1" {
				t.Fatalf("loaded %+v", loaded)
			}
			if loaded.Output.Codec != "h264" {
				t.Fatalf("output options lost: %+v", loaded.Output)
			}

			loaded.Status = jobs.StatusCompleted
			loaded.Progress = 100
			loaded.OutputPath = "/exports/job-1.mp4"
			loaded.PublicURL = "/api/v1/burnins/job-1/download"
			loaded.UpdatedAt = now.Add(time.Second)
			if err := store.Update(ctx, loaded); err != nil {
				t.Fatalf("Update: %v", err)
			}

			reloaded, err := store.Get(ctx, "job-1")
			if err != nil {
				t.Fatalf("Get after update: %v", err)
			}
			if reloaded.Status != jobs.StatusCompleted || reloaded.Progress != 100 {
				t.Fatalf("update not persisted: %+v", reloaded)
			}
			if reloaded.OutputPath != "/exports/job-1.mp4" {
				t.Fatalf("output path: %q", reloaded.OutputPath)
			}
		})
	}
}

func TestStoreGetMissingReturnsNil(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			job, err := store.Get(context.Background(), "absent")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if job != nil {
				t.Fatalf("missing id should yield nil, got %+v", job)
			}
		})
	}
}

func TestStoreListOrdersByCreation(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC()
			for i, id := range []string{"job-b", "job-a", "job-c"} {
				job := seedJob(id, jobs.StatusPending, base.Add(time.Duration(i)*time.Second))
				if err := store.Create(ctx, job); err != nil {
					t.Fatalf("Create %s: %v", id, err)
				}
			}

			all, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("len %d", len(all))
			}
			if all[0].ID != "job-b" || all[1].ID != "job-a" || all[2].ID != "job-c" {
				t.Fatalf("order: %s %s %s", all[0].ID, all[1].ID, all[2].ID)
			}
		})
	}
}

func TestStoreDeleteOlderThan(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC()

			old := seedJob("old", jobs.StatusCompleted, now.Add(-48*time.Hour))
			fresh := seedJob("fresh", jobs.StatusCompleted, now)
			for _, job := range []*jobs.Job{old, fresh} {
				if err := store.Create(ctx, job); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}

			removed, err := store.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("DeleteOlderThan: %v", err)
			}
			if len(removed) != 1 || removed[0].ID != "old" {
				t.Fatalf("removed %+v", removed)
			}

			if job, _ := store.Get(ctx, "old"); job != nil {
				t.Fatal("expired job still present")
			}
			if job, _ := store.Get(ctx, "fresh"); job == nil {
				t.Fatal("fresh job removed")
			}
		})
	}
}

func TestStoreDeleteOlderThanSkipsActiveJobs(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC()
			stale := now.Add(-48 * time.Hour)

			for _, job := range []*jobs.Job{
				seedJob("stalled-pending", jobs.StatusPending, stale),
				seedJob("stalled-processing", jobs.StatusProcessing, stale),
				seedJob("done", jobs.StatusCompleted, stale),
				seedJob("broken", jobs.StatusFailed, stale),
			} {
				if err := store.Create(ctx, job); err != nil {
					t.Fatalf("Create %s: %v", job.ID, err)
				}
			}

			removed, err := store.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("DeleteOlderThan: %v", err)
			}
			if len(removed) != 2 {
				t.Fatalf("removed %d jobs, want 2", len(removed))
			}
			for _, job := range removed {
				if job.ID != "done" && job.ID != "broken" {
					t.Fatalf("removed active job %s", job.ID)
				}
			}

			for _, id := range []string{"stalled-pending", "stalled-processing"} {
				if job, _ := store.Get(ctx, id); job == nil {
					t.Fatalf("active job %s was removed", id)
				}
			}
		})
	}
}

func TestMemoryStoreCopiesOnReadAndWrite(t *testing.T) {
	store := jobs.NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	job := seedJob("job-1", jobs.StatusPending, now)
	if err := store.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	job.Status = jobs.StatusFailed

	loaded, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Status != jobs.StatusPending {
		t.Fatal("store shared memory with the caller's job")
	}

	loaded.Progress = 55
	again, _ := store.Get(ctx, "job-1")
	if again.Progress != 0 {
		t.Fatal("mutating a returned job leaked into the store")
	}
}
