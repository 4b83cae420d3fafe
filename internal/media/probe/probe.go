// Package probe inspects media files with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"subburn/internal/services"
)

// Info is the subset of probe output the burn-in pipeline needs.
type Info struct {
	Width    int
	Height   int
	Duration float64
}

// Resolution renders the probed dimensions as "WxH", or "" when the probe
// found no video stream dimensions.
func (i Info) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// Prober executes ffprobe against input files.
type Prober struct {
	binary string
}

// New returns a prober using the given ffprobe binary. An empty binary falls
// back to "ffprobe" on PATH.
func New(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

// Inspect probes path and returns its dimensions and duration.
func (p *Prober) Inspect(ctx context.Context, path string) (Info, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, services.Wrap(services.ErrValidation, "probe", "inspect", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "probe", "inspect", strings.TrimSpace(string(output)), err)
	}
	return Parse(output)
}

type result struct {
	Streams []stream `json:"streams"`
	Format  format   `json:"format"`
}

type stream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type format struct {
	Duration string `json:"duration"`
}

// Parse decodes raw ffprobe JSON into Info. Duration prefers the container
// value and falls back to the first video stream's. A missing duration is
// reported as 0, not an error, so the caller can degrade progress reporting.
func Parse(data []byte) (Info, error) {
	var parsed result
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "probe", "parse", "decode ffprobe output", err)
	}

	info := Info{Duration: parseSeconds(parsed.Format.Duration)}
	for _, s := range parsed.Streams {
		if !strings.EqualFold(s.CodecType, "video") {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		if info.Duration == 0 {
			info.Duration = parseSeconds(s.Duration)
		}
		break
	}
	return info, nil
}

func parseSeconds(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
