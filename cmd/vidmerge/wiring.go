package main

import (
	"context"
	"log/slog"
	"os/exec"

	"vidmerge/internal/concat"
	"vidmerge/internal/config"
	"vidmerge/internal/history"
	"vidmerge/internal/logging"
	"vidmerge/internal/media/ffprobe"
	"vidmerge/internal/pdftext"
	"vidmerge/internal/pipeline"
)

// newExtractor selects the configured PDF backend. When none is available the
// extractor is still returned; it fails every Extract with ErrNoBackend so
// the pipeline can report the capability error itself.
func newExtractor(cfg *config.Config, logger *slog.Logger) *pdftext.Extractor {
	backend, err := pdftext.SelectBackend(cfg.PDF.Backend, cfg.PDF.PDFToTextBinary, exec.LookPath)
	if err != nil {
		logging.WarnWithContext(logger, "pdf text extraction unavailable", "pdf_backend_missing",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install poppler-utils or set pdf.backend"),
			logging.String(logging.FieldImpact, "merges will fail at the extraction step"),
		)
		backend = nil
	}
	return pdftext.NewExtractor(backend, logger)
}

func newMerger(cfg *config.Config, logger *slog.Logger) *concat.Merger {
	return &concat.Merger{
		Binary:  cfg.Merge.FFmpegBinary,
		Timeout: cfg.MergeTimeout(),
		Logger:  logger,
	}
}

// newProbe returns an ffprobe-backed ProbeFunc, or nil when verification is
// disabled or ffprobe is missing.
func newProbe(cfg *config.Config, logger *slog.Logger) pipeline.ProbeFunc {
	if !cfg.Merge.VerifyOutput {
		return nil
	}
	binary, err := exec.LookPath(cfg.Merge.FFprobeBinary)
	if err != nil {
		logger.Debug("ffprobe not found; skipping media checks", logging.Error(err))
		return nil
	}
	return func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
}

func historyRecord(result pipeline.Result) history.Record {
	status := history.StatusFailed
	if result.Succeeded() {
		status = history.StatusSucceeded
	}
	return history.Record{
		JobID:      result.Job.ID,
		Folder:     result.Job.Folder,
		PDF:        result.Job.PDF,
		Output:     result.Job.Output,
		Status:     status,
		ErrorKind:  string(result.Kind),
		Message:    result.Message,
		Filenames:  len(result.Filenames),
		Matched:    len(result.Matched),
		Missing:    len(result.Missing),
		Staged:     result.Staged,
		StartedAt:  result.Started,
		FinishedAt: result.Finished,
	}
}
