package staging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vidmerge/internal/fileutil"
	"vidmerge/internal/logging"
)

// DirPrefix marks directories created by Stage. Cleanup only touches these.
const DirPrefix = "job-"

var copyFile = fileutil.CopyFilePreserve

// File is one staged copy.
type File struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Path   string `json:"path"`
}

// CopyFailure records a source that could not be staged.
type CopyFailure struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Err    error  `json:"-"`
}

// Result describes a staging run. Files keeps input order; failed sources are
// listed in Failures instead.
type Result struct {
	Dir      string        `json:"dir"`
	Files    []File        `json:"files"`
	Failures []CopyFailure `json:"failures,omitempty"`
}

// Paths returns the staged paths in order.
func (r Result) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// StagedName returns the scratch name for the 1-based index, keeping the
// source extension as-is (0002.MOV for Clip_02.MOV).
func StagedName(index int, source string) string {
	return fmt.Sprintf("%04d%s", index, filepath.Ext(source))
}

// Stage creates root/job-<jobID> and copies sources into it in order. A
// source that fails to copy is logged and skipped; the remaining sources are
// still staged and keep their original index. Only failure to create the
// scratch directory is returned as an error.
func Stage(ctx context.Context, root, jobID string, sources []string, logger *slog.Logger) (Result, error) {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "staging"))

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Result{}, errors.New("staging: empty job id")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Result{}, fmt.Errorf("create scratch root %q: %w", root, err)
	}
	dir := filepath.Join(root, DirPrefix+jobID)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return Result{}, fmt.Errorf("create scratch directory %q: %w", dir, err)
	}

	warnIfLowOnSpace(dir, sources, logger)

	result := Result{Dir: dir, Files: make([]File, 0, len(sources))}
	for i, source := range sources {
		index := i + 1
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target := filepath.Join(dir, StagedName(index, source))
		err := copyFile(source, target)
		switch {
		case errors.Is(err, fileutil.ErrMetadata):
			logging.WarnWithContext(logger, "staged copy kept without source metadata", "staging_metadata_skipped",
				logging.String("source", source),
				logging.String("target", target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "scratch filesystem may not support permissions or timestamps"),
				logging.String(logging.FieldImpact, "none; file contents were verified"),
			)
		case err != nil:
			result.Failures = append(result.Failures, CopyFailure{Index: index, Source: source, Err: err})
			logging.WarnWithContext(logger, "copy into scratch failed", "staging_copy_failed",
				logging.String("source", source),
				logging.String("target", target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the source is readable and the scratch disk has space"),
				logging.String(logging.FieldImpact, "file left out of the merged video"),
			)
			continue
		}
		result.Files = append(result.Files, File{Index: index, Source: source, Path: target})
		logger.Debug("staged file",
			logging.String("source", source),
			logging.String("target", target),
		)
	}
	return result, nil
}

// Remove deletes a scratch directory created by Stage.
func Remove(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if !strings.HasPrefix(filepath.Base(dir), DirPrefix) {
		return fmt.Errorf("refusing to remove %q: not a scratch directory", dir)
	}
	return os.RemoveAll(dir)
}

func warnIfLowOnSpace(dir string, sources []string, logger *slog.Logger) {
	var total uint64
	for _, source := range sources {
		if info, err := os.Stat(source); err == nil {
			total += uint64(info.Size())
		}
	}
	free, err := fileutil.FreeBytes(dir)
	if err != nil {
		logger.Debug("free space check unavailable", logging.Error(err))
		return
	}
	if free < total {
		logging.WarnWithContext(logger, "scratch filesystem may be too small", "staging_low_space",
			logging.Any("required_bytes", total),
			logging.Any("free_bytes", free),
			logging.String(logging.FieldErrorHint, "set staging.dir to a larger filesystem"),
			logging.String(logging.FieldImpact, "some copies may fail"),
		)
	}
}
