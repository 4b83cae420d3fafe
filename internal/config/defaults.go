package config

const (
	defaultUploadDir              = "~/.local/share/subburn/uploads"
	defaultExportDir              = "~/.local/share/subburn/exports"
	defaultLogDir                 = "~/.local/share/subburn/logs"
	defaultBind                   = "127.0.0.1:8385"
	defaultFormat                 = "mp4"
	defaultCodec                  = "h264"
	defaultQuality                = "medium"
	defaultMaxSegmentSeconds      = 5.0
	defaultMinSegmentSeconds      = 1.0
	defaultWordsPerMinute         = 150.0
	defaultJobsBackend            = "sqlite"
	defaultRetentionHours         = 24
	defaultCleanupIntervalMinutes = 30
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
			Bind:      defaultBind,
		},
		Encoding: Encoding{
			Format:  defaultFormat,
			Codec:   defaultCodec,
			Quality: defaultQuality,
		},
		Segmentation: Segmentation{
			MaxSegmentSeconds: defaultMaxSegmentSeconds,
			MinSegmentSeconds: defaultMinSegmentSeconds,
			WordsPerMinute:    defaultWordsPerMinute,
		},
		Jobs: Jobs{
			Backend:                defaultJobsBackend,
			RetentionHours:         defaultRetentionHours,
			CleanupIntervalMinutes: defaultCleanupIntervalMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
