package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePDF(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePDF() error {
	switch c.PDF.Backend {
	case "auto", "native", "pdftotext":
		return nil
	default:
		return fmt.Errorf("pdf.backend must be one of auto, native, pdftotext (got %q)", c.PDF.Backend)
	}
}

func (c *Config) validateMerge() error {
	if strings.TrimSpace(c.Merge.FFmpegBinary) == "" {
		return errors.New("merge.ffmpeg_binary must be set")
	}
	if c.Merge.TimeoutSeconds < 0 {
		return errors.New("merge.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Staging.StaleHours < 0 {
		return errors.New("staging.stale_hours must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL (got %q)", topic)
	}
	return nil
}
