package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"subburn/internal/logging"
	"subburn/internal/services"
)

// Event is one update from a burn-in run. Zero or more progress events
// (Terminal false, Fraction in [0,1)) are followed by exactly one terminal
// event, after which the channel closes. A terminal event with a nil Err
// means the output file is complete.
type Event struct {
	Fraction float64
	Terminal bool
	Err      error
}

// Runner executes ffmpeg burn-in runs.
type Runner struct {
	binary string
	logger *slog.Logger
}

// NewRunner returns a runner using the given ffmpeg binary. An empty binary
// falls back to "ffmpeg" on PATH.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{binary: binary, logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

// Run launches ffmpeg for req and returns the event stream. The returned
// channel always delivers exactly one terminal event before closing, even
// when the process fails to start.
func (r *Runner) Run(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		r.execute(ctx, req, events)
	}()
	return events
}

func (r *Runner) execute(ctx context.Context, req Request, events chan<- Event) {
	args := BuildArgs(req)
	r.logger.Info("starting burn-in",
		logging.String("input", req.InputPath),
		logging.String("output", req.OutputPath),
		logging.Float64("duration", req.Duration),
	)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		events <- Event{Terminal: true, Err: services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "open progress pipe", err)}
		return
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		events <- Event{Terminal: true, Err: services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "start process", err)}
		return
	}

	parser := progressParser{duration: req.Duration}
	sawEnd := false
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		fraction, terminal, ok := parser.feed(scanner.Text())
		if !ok {
			continue
		}
		if terminal {
			sawEnd = true
			continue
		}
		events <- Event{Fraction: fraction}
	}

	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		events <- Event{Terminal: true, Err: services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "cancelled", ctxErr)}
		return
	}
	if err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "process failed"
		}
		r.logger.Error("burn-in failed", logging.Error(err), logging.String("detail", message))
		events <- Event{Terminal: true, Err: services.Wrap(services.ErrExternalTool, "ffmpeg", "run", message, err)}
		return
	}
	if !sawEnd {
		r.logger.Warn("process exited without progress end marker")
	}

	r.logger.Info("burn-in complete", logging.String("output", req.OutputPath))
	events <- Event{Fraction: 1, Terminal: true}
}
