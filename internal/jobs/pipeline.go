package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"subburn/internal/captions"
	"subburn/internal/ffmpeg"
	"subburn/internal/logging"
	"subburn/internal/services"
	"subburn/internal/styles"
	"subburn/internal/subtitles"
)

// pipelineTracker enforces one pipeline goroutine per job id and lets the
// daemon drain in-flight jobs on shutdown.
type pipelineTracker struct {
	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

func newPipelineTracker() *pipelineTracker {
	return &pipelineTracker{active: make(map[string]struct{})}
}

func (t *pipelineTracker) launch(jobID string, run func()) bool {
	t.mu.Lock()
	if _, exists := t.active[jobID]; exists {
		t.mu.Unlock()
		return false
	}
	t.active[jobID] = struct{}{}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer func() {
			t.mu.Lock()
			delete(t.active, jobID)
			t.mu.Unlock()
			t.wg.Done()
		}()
		run()
	}()
	return true
}

func (t *pipelineTracker) wait() {
	t.wg.Wait()
}

// runPipeline drives one job from pending to a terminal state. It is the
// job's single writer: nothing else mutates the record while it runs.
func (m *Manager) runPipeline(job *Job, req CreateRequest, style styles.Style) {
	ctx := context.Background()
	log := m.logger.With(logging.String(logging.FieldJobID, job.ID))

	job.Status = StatusProcessing
	m.persist(ctx, job)

	inputPath, err := m.resolver.Resolve(job.VideoID)
	if err != nil {
		m.fail(ctx, job, log, err)
		return
	}

	info, err := m.prober.Inspect(ctx, inputPath)
	if err != nil {
		m.fail(ctx, job, log, err)
		return
	}

	segments := req.Captions
	if len(segments) == 0 {
		segments = captions.FromTranscript(req.Transcript, info.Duration, captions.Options{
			MaxSegmentSeconds: m.cfg.Segmentation.MaxSegmentSeconds,
			MinSegmentSeconds: m.cfg.Segmentation.MinSegmentSeconds,
			WordsPerMinute:    m.cfg.Segmentation.WordsPerMinute,
		})
		if len(segments) == 0 {
			m.fail(ctx, job, log, services.Wrap(nil, "jobs", "pipeline", "transcript produced no captions", nil))
			return
		}
	}

	resolution := strings.TrimSpace(job.Output.Resolution)
	if resolution == "" {
		resolution = info.Resolution()
	}
	document := subtitles.Compile(segments, style, subtitles.Options{
		Resolution:        resolution,
		ForceHighContrast: req.ForceHighContrast,
	})

	subtitlePath := filepath.Join(m.cfg.Paths.ExportDir, job.ID+".ass")
	if err := os.WriteFile(subtitlePath, []byte(document), 0o644); err != nil {
		m.fail(ctx, job, log, services.Wrap(nil, "jobs", "pipeline", "write subtitle document", err))
		return
	}
	defer os.Remove(subtitlePath)

	outputPath := filepath.Join(m.cfg.Paths.ExportDir, fmt.Sprintf("%s.%s", job.ID, outputExtension(job.Output.Format)))
	events := m.invoker.Run(ctx, ffmpeg.Request{
		InputPath:    inputPath,
		SubtitlePath: subtitlePath,
		OutputPath:   outputPath,
		Duration:     info.Duration,
		Options: ffmpeg.EncodeOptions{
			Format:     job.Output.Format,
			Codec:      job.Output.Codec,
			Quality:    job.Output.Quality,
			Resolution: job.Output.Resolution,
			FPS:        job.Output.FPS,
		},
	})

	terminal := false
	for event := range events {
		if terminal {
			// Late events after a terminal state are discarded.
			continue
		}
		if event.Terminal {
			terminal = true
			if event.Err != nil {
				m.fail(ctx, job, log, event.Err)
				continue
			}
			job.Status = StatusCompleted
			job.Progress = 100
			job.OutputPath = outputPath
			job.PublicURL = "/api/v1/burnins/" + job.ID + "/download"
			m.persist(ctx, job)
			log.Info("job completed", logging.String("output", outputPath))
			continue
		}
		m.applyProgress(ctx, job, event.Fraction)
	}
	if !terminal {
		m.fail(ctx, job, log, services.Wrap(nil, "jobs", "pipeline", "engine stream ended without terminal event", nil))
	}
}

// applyProgress folds a fractional progress event into the record,
// monotonically and capped below 100 until the terminal event.
func (m *Manager) applyProgress(ctx context.Context, job *Job, fraction float64) {
	percent := int(fraction * 100)
	if percent > 99 {
		percent = 99
	}
	if percent <= job.Progress {
		return
	}
	job.Progress = percent
	m.persist(ctx, job)
}

func (m *Manager) fail(ctx context.Context, job *Job, log *slog.Logger, err error) {
	job.Status = StatusFailed
	job.ErrorMessage = err.Error()
	m.persist(ctx, job)
	log.Error("job failed", logging.Error(err))
}

func (m *Manager) persist(ctx context.Context, job *Job) {
	job.UpdatedAt = time.Now().UTC()
	if err := m.store.Update(ctx, job); err != nil {
		m.logger.Error("persist job update",
			logging.String(logging.FieldJobID, job.ID),
			logging.Error(err),
		)
	}
	m.events.publish(job)
}

func outputExtension(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "mkv", "webm", "mov":
		return format
	default:
		return "mp4"
	}
}
