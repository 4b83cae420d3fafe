package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed input rejected at the boundary before any
	// job record exists.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for identifiers that were never created.
	ErrNotFound = errors.New("not found")
	// ErrNotReady marks requests for output of a job that has not completed.
	ErrNotReady = errors.New("not ready")
	// ErrFileMissing marks a completed job whose output file is no longer on
	// disk, distinct from an unknown job id.
	ErrFileMissing = errors.New("file missing")
	// ErrExternalTool marks failures reported by external binaries (ffmpeg,
	// ffprobe).
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks unusable runtime configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category names the error taxonomy bucket an error belongs to, so transport
// layers can report "doesn't exist" vs "exists but incomplete" vs "rejected
// input" distinctly.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryNotFound    Category = "not_found"
	CategoryNotReady    Category = "not_ready"
	CategoryFileMissing Category = "file_missing"
	CategoryInternal    Category = "internal"
)

// Classify maps an error to its taxonomy category.
func Classify(err error) Category {
	switch {
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrNotReady):
		return CategoryNotReady
	case errors.Is(err, ErrFileMissing):
		return CategoryFileMissing
	default:
		return CategoryInternal
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
