package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidmerge/internal/config"
	"vidmerge/internal/history"
	"vidmerge/internal/joblock"
	"vidmerge/internal/logging"
	"vidmerge/internal/notifications"
	"vidmerge/internal/pipeline"
	"vidmerge/internal/preflight"
	"vidmerge/internal/staging"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var folder, pdf, output string
	var pick, keepScratch bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the videos referenced by a PDF into one file",
		Long: "Extract video file names from the PDF, match them case-insensitively in the folder,\n" +
			"and concatenate the matches in PDF order with ffmpeg (stream copy, no re-encode).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if pick {
				folder, pdf, output, err = pickPaths(zenityPicker{}, folder, pdf, output)
				if err != nil {
					return err
				}
			}
			runCfg := *cfg
			if keepScratch {
				runCfg.Staging.KeepScratch = true
			}
			job := pipeline.Job{Folder: folder, PDF: pdf, Output: output}
			return runMerge(cmd, ctx, &runCfg, logger, job)
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Folder containing the video files")
	cmd.Flags().StringVarP(&pdf, "pdf", "p", "", "PDF that lists the video file names")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Merged output file")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose missing paths with native dialogs")
	cmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "Keep the numbered copies after merging")
	return cmd
}

func runMerge(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, logger *slog.Logger, job pipeline.Job) error {
	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	out := cmd.OutOrStdout()

	job.Folder = absOrEmpty(job.Folder)
	job.PDF = absOrEmpty(job.PDF)
	job.Output = absOrEmpty(job.Output)

	for _, check := range preflight.Failed(preflight.RunAll(runCtx, cfg, preflight.Inputs{Output: job.Output})) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldErrorHint, "fix the path or permissions before retrying"),
			logging.String(logging.FieldImpact, "merge may fail"),
		)
		if !ctx.JSONMode() {
			fmt.Fprintln(out, renderStatusLine(check.Name, statusWarn, check.Detail, shouldColorize(out)))
		}
	}

	lock, err := joblock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release job lock", logging.Error(err))
		}
	}()

	if cfg.Staging.StaleHours > 0 {
		staging.CleanStale(runCtx, cfg.Staging.Dir, cfg.StaleScratchAge(), logger)
	}

	var reporter pipeline.Reporter
	if !ctx.JSONMode() {
		reporter = newConsoleReporter(out)
	}

	p := pipeline.New(pipeline.Options{
		Extractor:   newExtractor(cfg, logger),
		Merger:      newMerger(cfg, logger),
		ScratchRoot: cfg.Staging.Dir,
		KeepScratch: cfg.Staging.KeepScratch,
		Probe:       newProbe(cfg, logger),
		Notifier:    notifications.NewService(cfg),
		Reporter:    reporter,
		Logger:      logger,
	})
	result := p.Run(runCtx, job)

	if cfg.History.Enabled && result.Kind != pipeline.KindValidation {
		recordHistory(runCtx, cfg, logger, result)
	}

	if ctx.JSONMode() {
		if err := writeJSON(cmd, mergeOutput(result)); err != nil {
			return err
		}
	} else if result.Succeeded() {
		fmt.Fprintf(out, "Merged %d files into %s\n", result.Staged, result.Job.Output)
	}

	if result.Succeeded() {
		return nil
	}
	return result.Err
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, result pipeline.Result) {
	store, err := history.Open(context.WithoutCancel(ctx), cfg.HistoryPath())
	if err != nil {
		logger.Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()
	if _, err := store.Record(context.WithoutCancel(ctx), historyRecord(result)); err != nil {
		logger.Warn("failed to record merge history", logging.Error(err))
	}
}

// mergeOutput is the --json shape of a merge result.
func mergeOutput(result pipeline.Result) map[string]any {
	payload := map[string]any{
		"success": result.Succeeded(),
		"result":  result,
	}
	if !result.Succeeded() {
		payload["error"] = result.Message
		payload["error_kind"] = result.Kind
	}
	return payload
}

func absOrEmpty(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
