package ffmpeg

import (
	"strings"
	"testing"
)

func TestBuildArgsCodecAndQuality(t *testing.T) {
	tests := []struct {
		name    string
		codec   string
		quality string
		encoder string
		crf     string
	}{
		{name: "defaults", codec: "", quality: "", encoder: "libx264", crf: "23"},
		{name: "h264 low", codec: "h264", quality: "low", encoder: "libx264", crf: "28"},
		{name: "hevc high", codec: "hevc", quality: "high", encoder: "libx265", crf: "18"},
		{name: "h265 medium", codec: "h265", quality: "medium", encoder: "libx265", crf: "23"},
		{name: "vp9", codec: "vp9", quality: "high", encoder: "libvpx-vp9", crf: "18"},
		{name: "unknown codec", codec: "av9000", quality: "medium", encoder: "libx264", crf: "23"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := BuildArgs(Request{
				InputPath:    "/in.mp4",
				SubtitlePath: "/subs.ass",
				OutputPath:   "/out.mp4",
				Options:      EncodeOptions{Codec: tc.codec, Quality: tc.quality},
			})
			joined := strings.Join(args, " ")
			if !strings.Contains(joined, "-c:v "+tc.encoder) {
				t.Fatalf("encoder: %s", joined)
			}
			if !strings.Contains(joined, "-crf "+tc.crf) {
				t.Fatalf("crf: %s", joined)
			}
		})
	}
}

func TestBuildArgsSubtitleFilterAndProgress(t *testing.T) {
	args := BuildArgs(Request{
		InputPath:    "/in.mp4",
		SubtitlePath: "/tmp/job.ass",
		OutputPath:   "/out.mp4",
		Options:      EncodeOptions{Format: "mp4", Resolution: "720x1280"},
	})
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-progress pipe:1") {
		t.Fatalf("progress flag missing: %s", joined)
	}
	if !strings.Contains(joined, "scale=720:1280,ass=") {
		t.Fatalf("filter chain should scale then burn subtitles: %s", joined)
	}
	if !strings.Contains(joined, "-movflags +faststart") {
		t.Fatalf("mp4 output should request faststart: %s", joined)
	}
	if args[len(args)-1] != "/out.mp4" {
		t.Fatalf("output path must be last: %v", args)
	}
}

func TestBuildArgsEscapesFilterPath(t *testing.T) {
	args := BuildArgs(Request{
		InputPath:    "/in.mp4",
		SubtitlePath: `C:\subs\job.ass`,
		OutputPath:   "/out.mp4",
	})
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, `ass=C\:\\subs\\job.ass`) {
		t.Fatalf("filter path not escaped: %s", joined)
	}
}

func TestProgressParserFractions(t *testing.T) {
	parser := progressParser{duration: 10}

	fraction, terminal, ok := parser.feed("out_time_ms=2500000")
	if !ok || terminal {
		t.Fatalf("out_time_ms line not consumed: ok=%v terminal=%v", ok, terminal)
	}
	if fraction != 0.25 {
		t.Fatalf("fraction: %v", fraction)
	}

	// Beyond the known duration the fraction caps below 1 until terminal.
	fraction, _, _ = parser.feed("out_time_ms=20000000")
	if fraction != 0.99 {
		t.Fatalf("pre-terminal cap: %v", fraction)
	}

	if _, _, ok := parser.feed("fps=30.1"); ok {
		t.Fatal("unrelated keys should not produce progress")
	}
	if _, _, ok := parser.feed("progress=continue"); ok {
		t.Fatal("continue marker should not produce progress")
	}

	fraction, terminal, ok = parser.feed("progress=end")
	if !ok || !terminal || fraction != 1 {
		t.Fatalf("end marker: fraction=%v terminal=%v ok=%v", fraction, terminal, ok)
	}
}

func TestProgressParserUnknownDuration(t *testing.T) {
	parser := progressParser{}
	fraction, terminal, ok := parser.feed("out_time_ms=5000000")
	if !ok || terminal {
		t.Fatalf("ok=%v terminal=%v", ok, terminal)
	}
	if fraction != 0.02 {
		t.Fatalf("unknown duration should report the coarse start milestone, got %v", fraction)
	}
}
