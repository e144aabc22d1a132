package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories owned by vidmerge.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// PDF selects the text extraction backend.
type PDF struct {
	// Backend is one of "auto", "native", or "pdftotext".
	Backend         string `toml:"backend"`
	PDFToTextBinary string `toml:"pdftotext_binary"`
}

// Merge contains settings for the ffmpeg concatenation step.
type Merge struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// TimeoutSeconds bounds the ffmpeg run. Zero waits indefinitely.
	TimeoutSeconds int  `toml:"timeout_seconds"`
	VerifyOutput   bool `toml:"verify_output"`
}

// Staging contains settings for the scratch directory used to order inputs.
type Staging struct {
	Dir         string `toml:"dir"`
	KeepScratch bool   `toml:"keep_scratch"`
	StaleHours  int    `toml:"stale_hours"`
}

// Notifications contains settings for completion notifications.
type Notifications struct {
	Desktop        bool   `toml:"desktop"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// History controls the merge job history database.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidmerge.
//
// Configuration sections by subsystem:
//   - Paths: state (lock file, history database) and log directories
//   - PDF: text extraction backend selection
//   - Merge: ffmpeg/ffprobe binaries, timeout, and output verification
//   - Staging: scratch directory location and cleanup policy
//   - Notifications: desktop and ntfy completion notices
//   - History: merge job history retention
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	PDF           PDF           `toml:"pdf"`
	Merge         Merge         `toml:"merge"`
	Staging       Staging       `toml:"staging"`
	Notifications Notifications `toml:"notifications"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidmerge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidmerge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to keep merge jobs exclusive.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "vidmerge.lock")
}

// HistoryPath returns the SQLite database holding merge job history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the log file written by the CLI.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "vidmerge.log")
}

// MergeTimeout returns the ffmpeg timeout, or zero when merges may run indefinitely.
func (c *Config) MergeTimeout() time.Duration {
	if c.Merge.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Merge.TimeoutSeconds) * time.Second
}

// StaleScratchAge returns the age after which leftover scratch directories are swept.
func (c *Config) StaleScratchAge() time.Duration {
	return time.Duration(c.Staging.StaleHours) * time.Hour
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultScratchRoot() string {
	return filepath.Join(os.TempDir(), defaultScratchDirName)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
