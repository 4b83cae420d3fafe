package jobs

import (
	"strings"
	"time"
)

// Status is a job lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// OutputOptions are the encode parameters a job was created with.
type OutputOptions struct {
	Format     string  `json:"format,omitempty"`
	Codec      string  `json:"codec,omitempty"`
	Quality    string  `json:"quality,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
}

// Job is one burn-in export. Progress is 0-100 and never decreases; once the
// status is terminal the record is immutable.
type Job struct {
	ID           string        `json:"jobId"`
	VideoID      string        `json:"videoId"`
	Status       Status        `json:"status"`
	Progress     int           `json:"progress"`
	OutputPath   string        `json:"outputPath,omitempty"`
	PublicURL    string        `json:"publicUrl,omitempty"`
	ErrorMessage string        `json:"error,omitempty"`
	Output       OutputOptions `json:"output"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Clone returns an independent copy safe to hand to callers.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	copied := *j
	return &copied
}

func normalizeStatus(value string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusProcessing:
		return StatusProcessing
	case StatusCompleted:
		return StatusCompleted
	case StatusFailed:
		return StatusFailed
	default:
		return StatusPending
	}
}
