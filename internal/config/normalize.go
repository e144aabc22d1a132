package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePDF()
	c.normalizeMerge()
	if err := c.normalizeStaging(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePDF() {
	c.PDF.Backend = strings.ToLower(strings.TrimSpace(c.PDF.Backend))
	if c.PDF.Backend == "" {
		c.PDF.Backend = defaultPDFBackend
	}
	c.PDF.PDFToTextBinary = strings.TrimSpace(c.PDF.PDFToTextBinary)
	if c.PDF.PDFToTextBinary == "" {
		c.PDF.PDFToTextBinary = defaultPDFToTextBinary
	}
}

func (c *Config) normalizeMerge() {
	c.Merge.FFmpegBinary = strings.TrimSpace(c.Merge.FFmpegBinary)
	if value, ok := os.LookupEnv("VIDMERGE_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Merge.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Merge.FFmpegBinary == "" {
		c.Merge.FFmpegBinary = defaultFFmpegBinary
	}
	c.Merge.FFprobeBinary = strings.TrimSpace(c.Merge.FFprobeBinary)
	if c.Merge.FFprobeBinary == "" {
		c.Merge.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeStaging() error {
	var err error
	if strings.TrimSpace(c.Staging.Dir) == "" {
		c.Staging.Dir = defaultScratchRoot()
	}
	if c.Staging.Dir, err = expandPath(c.Staging.Dir); err != nil {
		return fmt.Errorf("staging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("VIDMERGE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeHistory() {
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
