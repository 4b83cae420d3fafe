package probe_test

import (
	"testing"

	"subburn/internal/media/probe"
)

func TestParseExtractsDimensionsAndDuration(t *testing.T) {
	payload := []byte(`{
		"streams": [
			{"codec_type": "audio", "duration": "12.5"},
			{"codec_type": "video", "width": 1080, "height": 1920, "duration": "12.48"}
		],
		"format": {"duration": "12.52"}
	}`)

	info, err := probe.Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Width != 1080 || info.Height != 1920 {
		t.Fatalf("dimensions: %dx%d", info.Width, info.Height)
	}
	if info.Duration != 12.52 {
		t.Fatalf("duration should prefer container value, got %v", info.Duration)
	}
	if info.Resolution() != "1080x1920" {
		t.Fatalf("resolution: %q", info.Resolution())
	}
}

func TestParseFallsBackToStreamDuration(t *testing.T) {
	payload := []byte(`{
		"streams": [{"codec_type": "video", "width": 640, "height": 360, "duration": "3.2"}],
		"format": {}
	}`)
	info, err := probe.Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Duration != 3.2 {
		t.Fatalf("duration fallback: %v", info.Duration)
	}
}

func TestParseMissingDurationIsZero(t *testing.T) {
	payload := []byte(`{"streams": [{"codec_type": "video", "width": 640, "height": 360}], "format": {}}`)
	info, err := probe.Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Duration != 0 {
		t.Fatalf("missing duration should be 0, got %v", info.Duration)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := probe.Parse([]byte("not json")); err == nil {
		t.Fatal("garbage accepted")
	}
}
