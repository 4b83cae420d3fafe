package captions

import (
	"fmt"
	"math"
	"strings"
)

// Segment is one timed caption cue.
type Segment struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Start      float64 `json:"startTime"`
	End        float64 `json:"endTime"`
	Confidence float64 `json:"confidence"`
}

// Valid reports whether the segment satisfies the ingestion invariant:
// non-empty text and 0 <= start < end.
func (s Segment) Valid() bool {
	return strings.TrimSpace(s.Text) != "" && s.Start >= 0 && s.End > s.Start
}

// Options controls timing derivation when captions are produced from a raw
// transcript.
type Options struct {
	// MaxSegmentSeconds caps the duration of any derived segment.
	MaxSegmentSeconds float64
	// MinSegmentSeconds is accepted as configuration but is not enforced as
	// a hard timing floor; very short trailing segments are kept as-is.
	MinSegmentSeconds float64
	// WordsPerMinute is the assumed speaking rate.
	WordsPerMinute float64
}

// DefaultOptions returns the segmentation options used when none are
// configured.
func DefaultOptions() Options {
	return Options{
		MaxSegmentSeconds: 5,
		MinSegmentSeconds: 1,
		WordsPerMinute:    150,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.MaxSegmentSeconds <= 0 {
		o.MaxSegmentSeconds = defaults.MaxSegmentSeconds
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = defaults.WordsPerMinute
	}
	return o
}

// FromTranscript splits a transcript into timed caption segments covering up
// to totalDuration seconds.
//
// Words are distributed into contiguous fixed-size groups preserving their
// original order; this is a greedy chunking, not a linguistic boundary-aware
// split. Each group's duration is the larger of its spoken-time estimate and
// an even share of the total duration, capped at MaxSegmentSeconds, so the
// derived track stays contiguous from zero. The final segment is clipped so
// its end never exceeds totalDuration, and any segment the clip would leave
// empty is dropped.
//
// An empty transcript yields an empty slice, not an error.
func FromTranscript(transcript string, totalDuration float64, opts Options) []Segment {
	opts = opts.withDefaults()

	words := strings.Fields(transcript)
	if len(words) == 0 || totalDuration <= 0 {
		return nil
	}

	targetCount := int(math.Ceil(totalDuration / opts.MaxSegmentSeconds))
	if targetCount < 1 {
		targetCount = 1
	}
	wordsPerSegment := int(math.Ceil(float64(len(words)) / float64(targetCount)))
	if wordsPerSegment < 1 {
		wordsPerSegment = 1
	}
	evenShare := totalDuration / float64(targetCount)

	segments := make([]Segment, 0, targetCount)
	cursor := 0.0
	index := 0
	for start := 0; start < len(words); start += wordsPerSegment {
		end := start + wordsPerSegment
		if end > len(words) {
			end = len(words)
		}
		group := words[start:end]

		spoken := float64(len(group)) / opts.WordsPerMinute * 60
		duration := math.Max(spoken, evenShare)
		if duration < 1 {
			duration = 1
		}
		if duration > opts.MaxSegmentSeconds {
			duration = opts.MaxSegmentSeconds
		}

		startTime := cursor
		endTime := startTime + duration
		if endTime > totalDuration {
			endTime = totalDuration
		}
		if endTime <= startTime {
			break
		}

		index++
		segments = append(segments, Segment{
			ID:         fmt.Sprintf("seg-%d", index),
			Text:       strings.Join(group, " "),
			Start:      startTime,
			End:        endTime,
			Confidence: 1,
		})
		cursor = endTime
	}

	return segments
}
