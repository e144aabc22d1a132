package preflight

import (
	"context"
	"path/filepath"
	"strings"

	"vidmerge/internal/config"
	"vidmerge/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Inputs are the job paths to check. Empty fields are skipped.
type Inputs struct {
	Folder string
	PDF    string
	Output string
}

// RunAll runs the filesystem checks for cfg and in, plus the ntfy
// reachability check when a topic is configured.
func RunAll(ctx context.Context, cfg *config.Config, in Inputs) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckWritableRoot("Scratch directory", cfg.Staging.Dir),
		CheckWritableRoot("State directory", cfg.Paths.StateDir),
	}
	if folder := strings.TrimSpace(in.Folder); folder != "" {
		results = append(results, CheckReadableDirectory("Video folder", folder))
	}
	if pdf := strings.TrimSpace(in.PDF); pdf != "" {
		results = append(results, CheckReadableFile("PDF", pdf))
	}
	if output := strings.TrimSpace(in.Output); output != "" {
		results = append(results, CheckDirectoryAccess("Output directory", filepath.Dir(output)))
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		results = append(results, CheckNtfy(ctx, topic))
	}
	return results
}

// CheckSystemDeps evaluates the external binaries cfg points at.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
