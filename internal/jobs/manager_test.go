package jobs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subburn/internal/captions"
	"subburn/internal/ffmpeg"
	"subburn/internal/jobs"
	"subburn/internal/media/probe"
	"subburn/internal/services"
	"subburn/internal/testsupport"
)

type fakeResolver struct {
	path string
	err  error
}

func (f *fakeResolver) Resolve(string) (string, error) {
	return f.path, f.err
}

type fakeProber struct {
	info probe.Info
	err  error
}

func (f *fakeProber) Inspect(context.Context, string) (probe.Info, error) {
	return f.info, f.err
}

// fakeInvoker replays a scripted event stream, optionally waiting for
// release first, and creates the output file on success, as the real engine
// would.
type fakeInvoker struct {
	events  []ffmpeg.Event
	release chan struct{}
}

func (f *fakeInvoker) Run(_ context.Context, req ffmpeg.Request) <-chan ffmpeg.Event {
	out := make(chan ffmpeg.Event, len(f.events))
	go func() {
		defer close(out)
		if f.release != nil {
			<-f.release
		}
		for _, event := range f.events {
			if event.Terminal && event.Err == nil {
				if err := os.WriteFile(req.OutputPath, []byte("media"), 0o644); err != nil {
					out <- ffmpeg.Event{Terminal: true, Err: err}
					return
				}
			}
			out <- event
		}
	}()
	return out
}

func newTestManager(t *testing.T, invoker jobs.Invoker) (*jobs.Manager, *jobs.MemoryStore, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)

	inputPath := filepath.Join(cfg.Paths.UploadDir, "vid-1_clip.mp4")
	if err := os.WriteFile(inputPath, []byte("input"), 0o644); err != nil {
		t.Fatalf("write input fixture: %v", err)
	}

	store := jobs.NewMemoryStore()
	manager := jobs.NewManager(
		store,
		&fakeResolver{path: inputPath},
		&fakeProber{info: probe.Info{Width: 1080, Height: 1920, Duration: 10}},
		invoker,
		cfg,
		nil,
	)
	return manager, store, cfg.Paths.ExportDir
}

func validRequest() jobs.CreateRequest {
	return jobs.CreateRequest{
		VideoID: "vid-1",
		Captions: []captions.Segment{
			{ID: "seg-1", Text: "hello", Start: 0, End: 2},
			{ID: "seg-2", Text: "world", Start: 2, End: 4},
		},
	}
}

func TestCreateRunsJobToCompletion(t *testing.T) {
	invoker := &fakeInvoker{events: []ffmpeg.Event{
		{Fraction: 0.25},
		{Fraction: 0.5},
		{Fraction: 0.9},
		{Fraction: 1, Terminal: true},
	}}
	manager, _, exportDir := newTestManager(t, invoker)

	job, err := manager.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != jobs.StatusPending {
		t.Fatalf("new job should be pending, got %s", job.Status)
	}
	if job.ID == "" {
		t.Fatal("job id missing")
	}

	manager.Wait()

	final, err := manager.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("status %s, error %q", final.Status, final.ErrorMessage)
	}
	if final.Progress != 100 {
		t.Fatalf("completed progress should be 100, got %d", final.Progress)
	}
	if final.OutputPath == "" || filepath.Dir(final.OutputPath) != exportDir {
		t.Fatalf("output path %q not under export dir", final.OutputPath)
	}
	if final.PublicURL != "/api/v1/burnins/"+job.ID+"/download" {
		t.Fatalf("public url %q", final.PublicURL)
	}

	path, err := manager.Output(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if path != final.OutputPath {
		t.Fatalf("output path mismatch %q vs %q", path, final.OutputPath)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	invoker := &fakeInvoker{events: []ffmpeg.Event{
		{Fraction: 0.6},
		{Fraction: 0.3},
		{Fraction: 0.7},
		{Fraction: 1, Terminal: true},
	}}
	manager, _, _ := newTestManager(t, invoker)

	job, err := manager.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	snapshot, updates, cancel, err := manager.Subscribe(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	last := snapshot.Progress
	for snapshot := range updates {
		if snapshot.Progress < last {
			t.Fatalf("progress regressed from %d to %d", last, snapshot.Progress)
		}
		last = snapshot.Progress
	}
	if last != 100 {
		t.Fatalf("final observed progress %d", last)
	}
}

func TestSlowSubscriberStillReceivesTerminalSnapshot(t *testing.T) {
	// Far more distinct progress updates than a subscription buffers.
	release := make(chan struct{})
	events := make([]ffmpeg.Event, 0, 31)
	for i := 1; i <= 30; i++ {
		events = append(events, ffmpeg.Event{Fraction: float64(i) / 100})
	}
	events = append(events, ffmpeg.Event{Fraction: 1, Terminal: true})
	manager, _, _ := newTestManager(t, &fakeInvoker{events: events, release: release})

	job, err := manager.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	snapshot, updates, cancel, err := manager.Subscribe(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	// Let the pipeline run to completion without reading a single update,
	// then drain whatever the buffer kept.
	close(release)
	manager.Wait()

	last := snapshot
	for s := range updates {
		last = s
	}
	if last.Status != jobs.StatusCompleted || last.Progress != 100 {
		t.Fatalf("terminal snapshot dropped: status=%s progress=%d", last.Status, last.Progress)
	}
}

func TestEngineFailureFailsJob(t *testing.T) {
	invoker := &fakeInvoker{events: []ffmpeg.Event{
		{Fraction: 0.2},
		{Terminal: true, Err: errors.New("encoder exploded")},
	}}
	manager, _, _ := newTestManager(t, invoker)

	job, err := manager.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	manager.Wait()

	final, err := manager.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != jobs.StatusFailed {
		t.Fatalf("status %s", final.Status)
	}
	if final.ErrorMessage == "" {
		t.Fatal("failed job should carry an error message")
	}

	if _, err := manager.Output(context.Background(), job.ID); !errors.Is(err, services.ErrNotReady) {
		t.Fatalf("failed job output should be not-ready, got %v", err)
	}
}

func TestResolveFailureFailsJobWithoutCrash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := jobs.NewMemoryStore()
	manager := jobs.NewManager(
		store,
		&fakeResolver{err: services.Wrap(services.ErrNotFound, "media", "resolve", "video missing", nil)},
		&fakeProber{},
		&fakeInvoker{},
		cfg,
		nil,
	)

	job, err := manager.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	manager.Wait()

	final, err := manager.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != jobs.StatusFailed {
		t.Fatalf("status %s", final.Status)
	}
}

func TestCreateValidationRejectsBeforeAnyJobExists(t *testing.T) {
	manager, store, _ := newTestManager(t, &fakeInvoker{})

	tests := []struct {
		name string
		req  jobs.CreateRequest
	}{
		{name: "missing video id", req: jobs.CreateRequest{Captions: validRequest().Captions}},
		{name: "no captions or transcript", req: jobs.CreateRequest{VideoID: "vid-1"}},
		{
			name: "invalid caption timing",
			req: jobs.CreateRequest{
				VideoID:  "vid-1",
				Captions: []captions.Segment{{ID: "x", Text: "bad", Start: 3, End: 3}},
			},
		},
		{
			name: "malformed style json",
			req: jobs.CreateRequest{
				VideoID:  "vid-1",
				Captions: validRequest().Captions,
				Style:    []byte(`{"typography":`),
			},
		},
		{
			name: "style fails validation",
			req: jobs.CreateRequest{
				VideoID:  "vid-1",
				Captions: validRequest().Captions,
				Style:    []byte(`{"typography":{"fontSize":300,"fontColor":"#FFFFFF"}}`),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manager.Create(context.Background(), tc.req)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected requests must not create jobs, found %d", len(all))
	}
}

func TestCreateFromTranscript(t *testing.T) {
	invoker := &fakeInvoker{events: []ffmpeg.Event{{Fraction: 1, Terminal: true}}}
	manager, _, _ := newTestManager(t, invoker)

	job, err := manager.Create(context.Background(), jobs.CreateRequest{
		VideoID:    "vid-1",
		Transcript: "one two three four five six seven eight",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	manager.Wait()

	final, err := manager.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("status %s, error %q", final.Status, final.ErrorMessage)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	invoker := &fakeInvoker{events: []ffmpeg.Event{{Fraction: 1, Terminal: true}}}
	manager, _, _ := newTestManager(t, invoker)

	const n = 8
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			job, err := manager.Create(context.Background(), validRequest())
			if err != nil {
				ids <- ""
				return
			}
			ids <- job.ID
		}()
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		id := <-ids
		if id == "" {
			t.Fatal("create failed")
		}
		if seen[id] {
			t.Fatalf("duplicate job id %s", id)
		}
		seen[id] = true
	}
	manager.Wait()
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	manager, _, _ := newTestManager(t, &fakeInvoker{})
	_, err := manager.Get(context.Background(), "nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want not-found, got %v", err)
	}
	if errors.Is(err, services.ErrNotReady) {
		t.Fatal("unknown id must not be reported as not-ready")
	}
}

func TestOutputGating(t *testing.T) {
	manager, store, _ := newTestManager(t, &fakeInvoker{})
	now := time.Now().UTC()

	pending := &jobs.Job{ID: "p1", VideoID: "v", Status: jobs.StatusPending, CreatedAt: now, UpdatedAt: now}
	if err := store.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed pending: %v", err)
	}
	if _, err := manager.Output(context.Background(), "p1"); !errors.Is(err, services.ErrNotReady) {
		t.Fatalf("pending output should be not-ready, got %v", err)
	}

	gone := &jobs.Job{ID: "c1", VideoID: "v", Status: jobs.StatusCompleted, Progress: 100, OutputPath: "/nonexistent/out.mp4", CreatedAt: now, UpdatedAt: now}
	if err := store.Create(context.Background(), gone); err != nil {
		t.Fatalf("seed completed: %v", err)
	}
	if _, err := manager.Output(context.Background(), "c1"); !errors.Is(err, services.ErrFileMissing) {
		t.Fatalf("missing file should be reported distinctly, got %v", err)
	}
}

func TestRecoverStaleFailsInterruptedJobs(t *testing.T) {
	manager, store, _ := newTestManager(t, &fakeInvoker{})
	now := time.Now().UTC()

	stuck := &jobs.Job{ID: "s1", VideoID: "v", Status: jobs.StatusProcessing, Progress: 40, CreatedAt: now, UpdatedAt: now}
	done := &jobs.Job{ID: "d1", VideoID: "v", Status: jobs.StatusCompleted, Progress: 100, CreatedAt: now, UpdatedAt: now}
	for _, job := range []*jobs.Job{stuck, done} {
		if err := store.Create(context.Background(), job); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	recovered, err := manager.RecoverStale(context.Background())
	if err != nil {
		t.Fatalf("RecoverStale: %v", err)
	}
	if recovered != 1 {
		t.Fatalf("recovered %d", recovered)
	}
	after, err := manager.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Status != jobs.StatusFailed {
		t.Fatalf("stuck job should fail on recovery, got %s", after.Status)
	}
	untouched, err := manager.Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if untouched.Status != jobs.StatusCompleted {
		t.Fatalf("terminal job must stay immutable, got %s", untouched.Status)
	}
}
