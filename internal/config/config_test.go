package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vidmerge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDMERGE_FFMPEG", "")
	t.Setenv("VIDMERGE_NTFY_TOPIC", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "vidmerge")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.PDF.Backend != "auto" {
		t.Fatalf("expected auto pdf backend, got %q", cfg.PDF.Backend)
	}
	if cfg.Merge.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Merge.FFmpegBinary)
	}
	if cfg.MergeTimeout() != 0 {
		t.Fatalf("expected no merge timeout by default, got %s", cfg.MergeTimeout())
	}
	if cfg.Staging.Dir != filepath.Join(os.TempDir(), "vidmerge") {
		t.Fatalf("unexpected scratch root: %q", cfg.Staging.Dir)
	}
	if cfg.Staging.KeepScratch {
		t.Fatal("expected scratch directories to be removed by default")
	}
	if cfg.StaleScratchAge() != 24*time.Hour {
		t.Fatalf("unexpected stale age: %s", cfg.StaleScratchAge())
	}
	if cfg.Notifications.Desktop || cfg.Notifications.NtfyTopic != "" {
		t.Fatalf("expected notifications disabled by default, got %+v", cfg.Notifications)
	}
	if !cfg.History.Enabled || cfg.History.Limit != 20 {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.StateDir {
		t.Fatalf("lock path outside state dir: %q", cfg.LockPath())
	}
	if filepath.Dir(cfg.HistoryPath()) != cfg.Paths.StateDir {
		t.Fatalf("history path outside state dir: %q", cfg.HistoryPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vidmerge.toml")
	t.Setenv("VIDMERGE_FFMPEG", "")

	type payload struct {
		PDF struct {
			Backend string `toml:"backend"`
		} `toml:"pdf"`
		Merge struct {
			FFmpegBinary   string `toml:"ffmpeg_binary"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
		} `toml:"merge"`
		Staging struct {
			Dir         string `toml:"dir"`
			KeepScratch bool   `toml:"keep_scratch"`
		} `toml:"staging"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.PDF.Backend = " PDFToText "
	custom.Merge.FFmpegBinary = "/opt/ffmpeg/bin/ffmpeg"
	custom.Merge.TimeoutSeconds = 90
	custom.Staging.Dir = filepath.Join(tempDir, "scratch")
	custom.Staging.KeepScratch = true
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.PDF.Backend != "pdftotext" {
		t.Fatalf("expected normalized backend, got %q", cfg.PDF.Backend)
	}
	if cfg.Merge.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Merge.FFmpegBinary)
	}
	if cfg.MergeTimeout() != 90*time.Second {
		t.Fatalf("unexpected merge timeout: %s", cfg.MergeTimeout())
	}
	if cfg.Staging.Dir != filepath.Join(tempDir, "scratch") || !cfg.Staging.KeepScratch {
		t.Fatalf("unexpected staging config: %+v", cfg.Staging)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvironmentOverridesFFmpegBinary(t *testing.T) {
	t.Setenv("VIDMERGE_FFMPEG", "/usr/local/bin/ffmpeg7")
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Merge.FFmpegBinary != "/usr/local/bin/ffmpeg7" {
		t.Fatalf("expected env override, got %q", cfg.Merge.FFmpegBinary)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.PDF.Backend = "ocr" },
			wantErr: "pdf.backend",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *config.Config) { c.Merge.TimeoutSeconds = -1 },
			wantErr: "merge.timeout_seconds",
		},
		{
			name:    "negative stale hours",
			mutate:  func(c *config.Config) { c.Staging.StaleHours = -3 },
			wantErr: "staging.stale_hours",
		},
		{
			name:    "bare ntfy topic",
			mutate:  func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" },
			wantErr: "notifications.ntfy_topic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Setenv("VIDMERGE_FFMPEG", "")
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.PDF.Backend != "auto" || cfg.Merge.FFmpegBinary != "ffmpeg" {
		t.Fatalf("sample did not round trip defaults: %+v", cfg)
	}
}
