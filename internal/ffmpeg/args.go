package ffmpeg

import (
	"fmt"
	"strings"
)

// EncodeOptions describes the output the burn-in run should produce.
type EncodeOptions struct {
	Format     string
	Codec      string
	Quality    string
	Resolution string
	FPS        float64
}

// Request is one burn-in invocation: input video, compiled subtitle document,
// destination path, and encode parameters.
type Request struct {
	InputPath    string
	SubtitlePath string
	OutputPath   string
	Duration     float64
	Options      EncodeOptions
}

func encoderFor(codec string) string {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "h265", "hevc":
		return "libx265"
	case "vp9":
		return "libvpx-vp9"
	default:
		return "libx264"
	}
}

func crfFor(quality string) string {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "low":
		return "28"
	case "high":
		return "18"
	default:
		return "23"
	}
}

// BuildArgs constructs the complete ffmpeg argument slice for a burn-in run.
// Progress is requested on stdout in machine-readable form; logs stay on
// stderr at error level.
func BuildArgs(req Request) []string {
	args := make([]string, 0, 32)
	args = append(args,
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-progress", "pipe:1",
		"-i", req.InputPath,
	)

	filters := []string{fmt.Sprintf("ass=%s", escapeFilterPath(req.SubtitlePath))}
	if res := strings.TrimSpace(req.Options.Resolution); res != "" {
		if scaled := scaleFilter(res); scaled != "" {
			filters = append([]string{scaled}, filters...)
		}
	}
	args = append(args, "-vf", strings.Join(filters, ","))

	encoder := encoderFor(req.Options.Codec)
	args = append(args,
		"-c:v", encoder,
		"-crf", crfFor(req.Options.Quality),
	)
	switch encoder {
	case "libvpx-vp9":
		// CRF mode for libvpx requires an explicit zero bitrate.
		args = append(args, "-b:v", "0")
	default:
		args = append(args, "-preset", "medium")
	}
	args = append(args, "-pix_fmt", "yuv420p")
	if req.Options.FPS > 0 {
		args = append(args, "-r", fmt.Sprintf("%g", req.Options.FPS))
	}
	args = append(args, "-c:a", "copy")

	if strings.EqualFold(strings.TrimSpace(req.Options.Format), "mp4") {
		args = append(args, "-movflags", "+faststart")
	}

	args = append(args, req.OutputPath)
	return args
}

func scaleFilter(resolution string) string {
	parts := strings.SplitN(strings.ToLower(resolution), "x", 2)
	if len(parts) != 2 {
		return ""
	}
	width := strings.TrimSpace(parts[0])
	height := strings.TrimSpace(parts[1])
	if width == "" || height == "" {
		return ""
	}
	return fmt.Sprintf("scale=%s:%s", width, height)
}

// escapeFilterPath quotes characters the ffmpeg filter parser treats as
// syntax: colons, backslashes, and quotes.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	path = strings.ReplaceAll(path, `'`, `\'`)
	return path
}
