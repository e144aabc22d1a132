// Package deps reports which external tools vidmerge can reach.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vidmerge/internal/config"
	"vidmerge/internal/pdftext"
)

// Requirement defines an external binary vidmerge calls.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Resolved    string `json:"resolved,omitempty"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the binaries the configured pipeline may invoke. ffmpeg
// is mandatory; the others only enable optional steps.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Merge.FFmpegBinary,
			Description: "Concatenates staged videos",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Merge.FFprobeBinary,
			Description: "Checks input codecs and verifies the merged output",
			Optional:    true,
		},
	}
	if cfg.PDF.Backend != pdftext.BackendNative {
		reqs = append(reqs, Requirement{
			Name:        "pdftotext",
			Command:     cfg.PDF.PDFToTextBinary,
			Description: "Extracts PDF text when the built-in parser is unavailable",
			Optional:    cfg.PDF.Backend == pdftext.BackendAuto,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Resolved = resolved
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable, non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
