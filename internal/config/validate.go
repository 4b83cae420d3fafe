package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateJobs(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.UploadDir) == "" {
		return errors.New("paths.upload_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		return errors.New("paths.export_dir must be set")
	}
	if strings.TrimSpace(c.Paths.Bind) == "" {
		return errors.New("paths.bind must be set")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	switch c.Encoding.Format {
	case "mp4", "mkv", "webm", "mov":
	default:
		return fmt.Errorf("encoding.format %q is not supported (mp4, mkv, webm, mov)", c.Encoding.Format)
	}
	switch c.Encoding.Quality {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("encoding.quality %q is not supported (low, medium, high)", c.Encoding.Quality)
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.MaxSegmentSeconds <= 0 {
		return errors.New("segmentation.max_segment_seconds must be positive")
	}
	if c.Segmentation.MinSegmentSeconds < 0 {
		return errors.New("segmentation.min_segment_seconds must be >= 0")
	}
	if c.Segmentation.MinSegmentSeconds > c.Segmentation.MaxSegmentSeconds {
		return errors.New("segmentation.min_segment_seconds must not exceed segmentation.max_segment_seconds")
	}
	if c.Segmentation.WordsPerMinute <= 0 {
		return errors.New("segmentation.words_per_minute must be positive")
	}
	return nil
}

func (c *Config) validateJobs() error {
	switch c.Jobs.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("jobs.backend %q is not supported (memory, sqlite)", c.Jobs.Backend)
	}
	if c.Jobs.RetentionHours <= 0 {
		return errors.New("jobs.retention_hours must be positive")
	}
	if c.Jobs.CleanupIntervalMinutes <= 0 {
		return errors.New("jobs.cleanup_interval_minutes must be positive")
	}
	return nil
}
