package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"subburn/internal/captions"
	"subburn/internal/config"
	"subburn/internal/ffmpeg"
	"subburn/internal/logging"
	"subburn/internal/media/probe"
	"subburn/internal/services"
	"subburn/internal/styles"
)

// Resolver maps an opaque video id to a readable input path.
type Resolver interface {
	Resolve(videoID string) (string, error)
}

// Prober inspects input media for dimensions and duration.
type Prober interface {
	Inspect(ctx context.Context, path string) (probe.Info, error)
}

// Invoker runs the transcoding engine and streams progress events. The
// returned channel delivers exactly one terminal event before closing.
type Invoker interface {
	Run(ctx context.Context, req ffmpeg.Request) <-chan ffmpeg.Event
}

// CreateRequest carries everything needed to start a burn-in export.
// Either Captions or Transcript must be provided; when both are present the
// explicit captions win.
type CreateRequest struct {
	VideoID           string
	Captions          []captions.Segment
	Transcript        string
	Preset            string
	Style             json.RawMessage
	Output            OutputOptions
	ForceHighContrast bool
}

// Manager owns job records and runs at most one pipeline per job id.
type Manager struct {
	store    Store
	resolver Resolver
	prober   Prober
	invoker  Invoker
	cfg      *config.Config
	logger   *slog.Logger
	events   *fanout
	tracker  *pipelineTracker
}

// NewManager wires the manager's collaborators together.
func NewManager(store Store, resolver Resolver, prober Prober, invoker Invoker, cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		store:    store,
		resolver: resolver,
		prober:   prober,
		invoker:  invoker,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "jobs"),
		events:   newFanout(),
		tracker:  newPipelineTracker(),
	}
}

// Create validates the request, stores a pending record, and launches the
// job's pipeline. Validation failures return before any record exists.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	style, err := m.validate(&req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		VideoID:   req.VideoID,
		Status:    StatusPending,
		Output:    m.outputDefaults(req.Output),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, job); err != nil {
		return nil, services.Wrap(nil, "jobs", "create", "store job", err)
	}

	m.logger.Info("job created",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("video_id", job.VideoID),
	)
	m.tracker.launch(job.ID, func() {
		m.runPipeline(job.Clone(), req, style)
	})
	return job.Clone(), nil
}

// Get returns the job record or a not-found error.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	job, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, services.Wrap(nil, "jobs", "get", "load job", err)
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "get", fmt.Sprintf("job %s not found", id), nil)
	}
	return job, nil
}

// List returns a snapshot of all job records.
func (m *Manager) List(ctx context.Context) ([]*Job, error) {
	return m.store.List(ctx)
}

// Output returns the path of a completed job's file. Pending, processing,
// and failed jobs are not ready; a completed job whose file disappeared is
// reported distinctly.
func (m *Manager) Output(ctx context.Context, id string) (string, error) {
	job, err := m.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status != StatusCompleted {
		return "", services.Wrap(services.ErrNotReady, "jobs", "output", fmt.Sprintf("job %s is %s", id, job.Status), nil)
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		return "", services.Wrap(services.ErrFileMissing, "jobs", "output", fmt.Sprintf("output for job %s is gone", id), err)
	}
	return job.OutputPath, nil
}

// Subscribe returns the job's current snapshot plus a channel of subsequent
// snapshots. The channel closes after a terminal snapshot; cancel is safe to
// call at any time.
func (m *Manager) Subscribe(ctx context.Context, id string) (*Job, <-chan *Job, func(), error) {
	// Register before reading the snapshot so a terminal transition cannot
	// slip between the two and leave the channel open forever.
	ch, cancel := m.events.subscribe(id)
	job, err := m.Get(ctx, id)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	if job.Status.Terminal() {
		cancel()
		closed := make(chan *Job)
		close(closed)
		return job, closed, func() {}, nil
	}
	return job, ch, cancel, nil
}

// Wait blocks until every launched pipeline has finished. Used on shutdown.
func (m *Manager) Wait() {
	m.tracker.wait()
}

// RecoverStale fails jobs left non-terminal by an earlier process. Pipelines
// do not survive a restart, so such records can never finish on their own.
func (m *Manager) RecoverStale(ctx context.Context) (int, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return 0, err
	}
	recovered := 0
	for _, job := range all {
		if job.Status.Terminal() {
			continue
		}
		job.Status = StatusFailed
		job.ErrorMessage = "interrupted by service restart"
		job.UpdatedAt = time.Now().UTC()
		if err := m.store.Update(ctx, job); err != nil {
			return recovered, err
		}
		recovered++
	}
	if recovered > 0 {
		m.logger.Info("recovered stale jobs", logging.Int("count", recovered))
	}
	return recovered, nil
}

func (m *Manager) validate(req *CreateRequest) (styles.Style, error) {
	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.VideoID == "" {
		return styles.Style{}, services.Wrap(services.ErrValidation, "jobs", "create", "videoId is required", nil)
	}
	req.Transcript = strings.TrimSpace(req.Transcript)
	if len(req.Captions) == 0 && req.Transcript == "" {
		return styles.Style{}, services.Wrap(services.ErrValidation, "jobs", "create", "captions or transcript required", nil)
	}
	for i, seg := range req.Captions {
		if !seg.Valid() {
			return styles.Style{}, services.Wrap(services.ErrValidation, "jobs", "create",
				fmt.Sprintf("caption %d invalid: text must be non-empty and endTime must exceed startTime", i), nil)
		}
	}

	var (
		style styles.Style
		err   error
	)
	if strings.TrimSpace(req.Preset) != "" {
		style, err = styles.FromPreset(req.Preset, req.Style)
	} else {
		style, err = styles.Decode(req.Style)
	}
	if err != nil {
		return styles.Style{}, services.Wrap(services.ErrValidation, "jobs", "create", "malformed style", err)
	}
	style = styles.Normalize(style)
	if result := styles.Validate(style); !result.Valid {
		return styles.Style{}, services.Wrap(services.ErrValidation, "jobs", "create",
			"invalid style: "+strings.Join(result.Errors, "; "), nil)
	}
	return style, nil
}

func (m *Manager) outputDefaults(opts OutputOptions) OutputOptions {
	if strings.TrimSpace(opts.Format) == "" {
		opts.Format = m.cfg.Encoding.Format
	}
	if strings.TrimSpace(opts.Codec) == "" {
		opts.Codec = m.cfg.Encoding.Codec
	}
	if strings.TrimSpace(opts.Quality) == "" {
		opts.Quality = m.cfg.Encoding.Quality
	}
	return opts
}
