package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subburn/internal/config"
	"subburn/internal/ffmpeg"
	"subburn/internal/jobs"
	"subburn/internal/logging"
	"subburn/internal/media/probe"
)

// staticResolver serves the one-shot path directly instead of going through
// the upload directory convention.
type staticResolver struct {
	path string
}

func (r *staticResolver) Resolve(string) (string, error) {
	return r.path, nil
}

func newBurnCommand(ctx *commandContext) *cobra.Command {
	var (
		transcript     string
		transcriptFile string
		captionsFile   string
		styleFile      string
		preset         string
		format         string
		codec          string
		quality        string
		resolution     string
		fps            float64
		highContrast   bool
	)

	cmd := &cobra.Command{
		Use:   "burn <video-file>",
		Short: "Burn captions into a local video file and wait for the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			inputPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(inputPath); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			req := jobs.CreateRequest{
				VideoID:           "local",
				Preset:            preset,
				ForceHighContrast: highContrast,
				Output: jobs.OutputOptions{
					Format:     format,
					Codec:      codec,
					Quality:    quality,
					Resolution: resolution,
					FPS:        fps,
				},
			}
			if req.Transcript, err = readTranscript(transcript, transcriptFile); err != nil {
				return err
			}
			if captionsFile != "" {
				data, err := os.ReadFile(captionsFile)
				if err != nil {
					return fmt.Errorf("read captions file: %w", err)
				}
				if err := json.Unmarshal(data, &req.Captions); err != nil {
					return fmt.Errorf("parse captions file: %w", err)
				}
			}
			if styleFile != "" {
				if req.Style, err = os.ReadFile(styleFile); err != nil {
					return fmt.Errorf("read style file: %w", err)
				}
			}

			logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: "console"})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			manager := jobs.NewManager(
				jobs.NewMemoryStore(),
				&staticResolver{path: inputPath},
				probe.New(cfg.FFprobeBinary()),
				ffmpeg.NewRunner(cfg.FFmpegBinary(), logger),
				cfg,
				logger,
			)

			job, err := manager.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, updates, cancel, err := manager.Subscribe(cmd.Context(), job.ID)
			if err != nil {
				return err
			}
			defer cancel()

			lastPrinted := -1
			for snapshot := range updates {
				if snapshot.Progress != lastPrinted {
					fmt.Fprintf(out, "\rprogress: %3d%%", snapshot.Progress)
					lastPrinted = snapshot.Progress
				}
			}
			fmt.Fprintln(out)
			manager.Wait()

			// The stream is best-effort for display; the stored record is
			// the authority on the outcome.
			final, err := manager.Get(cmd.Context(), job.ID)
			if err != nil {
				return err
			}
			if final.Status != jobs.StatusCompleted {
				return errors.New(final.ErrorMessage)
			}
			fmt.Fprintf(out, "wrote %s\n", final.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&transcript, "transcript", "", "Transcript text to derive caption timing from")
	cmd.Flags().StringVar(&transcriptFile, "transcript-file", "", "File containing the transcript text")
	cmd.Flags().StringVar(&captionsFile, "captions-file", "", "JSON file with timed caption segments")
	cmd.Flags().StringVar(&styleFile, "style-file", "", "JSON file with the caption style (nested or legacy shape)")
	cmd.Flags().StringVar(&preset, "preset", "", "Style preset: reel, classic, modern, minimal")
	cmd.Flags().StringVar(&format, "format", "", "Output container format (default from config)")
	cmd.Flags().StringVar(&codec, "codec", "", "Video codec: h264, h265, vp9")
	cmd.Flags().StringVar(&quality, "quality", "", "Encode quality: low, medium, high")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Output resolution, e.g. 1080x1920")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Output frame rate")
	cmd.Flags().BoolVar(&highContrast, "high-contrast", false, "Force opaque white caption text")
	return cmd
}

func readTranscript(inline, file string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if file == "" {
		return "", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read transcript file: %w", err)
	}
	return string(data), nil
}
