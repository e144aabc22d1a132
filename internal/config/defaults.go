package config

const (
	defaultStateDir              = "~/.local/share/vidmerge"
	defaultLogDir                = "~/.local/share/vidmerge/logs"
	defaultPDFBackend            = "auto"
	defaultPDFToTextBinary       = "pdftotext"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultMergeTimeoutSeconds   = 0
	defaultStagingStaleHours     = 24
	defaultNotifyRequestTimeout  = 10
	defaultHistoryLimit          = 20
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultScratchDirName        = "vidmerge"
	defaultNotificationsDesktop  = false
	defaultHistoryEnabled        = true
	defaultMergeVerifyOutput     = true
	defaultStagingKeepScratchDir = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		PDF: PDF{
			Backend:         defaultPDFBackend,
			PDFToTextBinary: defaultPDFToTextBinary,
		},
		Merge: Merge{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultMergeTimeoutSeconds,
			VerifyOutput:   defaultMergeVerifyOutput,
		},
		Staging: Staging{
			KeepScratch: defaultStagingKeepScratchDir,
			StaleHours:  defaultStagingStaleHours,
		},
		Notifications: Notifications{
			Desktop:        defaultNotificationsDesktop,
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Limit:   defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
