package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vidmerge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var prune int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent merge jobs",
		Long: `Show recent merge jobs, newest first.

Use --prune N to delete all but the N most recent records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.HistoryPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"jobs": []history.Record{}})
				}
				fmt.Fprintln(out, "No merge history")
				return nil
			}

			store, err := history.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			if cmd.Flags().Changed("prune") {
				removed, err := store.Prune(cmd.Context(), prune)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": removed})
				}
				fmt.Fprintf(out, "Removed %d history records\n", removed)
				return nil
			}

			if limit <= 0 {
				limit = cfg.History.Limit
			}
			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				if records == nil {
					records = []history.Record{}
				}
				return writeJSON(cmd, map[string]any{"jobs": records})
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No merge history")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					historyStatus(rec),
					fmt.Sprintf("%d/%d", rec.Staged, rec.Filenames),
					rec.Duration().Truncate(time.Second).String(),
					rec.Output,
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Started", "Status", "Files", "Took", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of jobs to show (default from config)")
	cmd.Flags().IntVar(&prune, "prune", 0, "Keep only the N most recent records")
	return cmd
}

func historyStatus(rec history.Record) string {
	if rec.Status == history.StatusFailed && rec.ErrorKind != "" {
		return string(rec.Status) + " (" + rec.ErrorKind + ")"
	}
	return string(rec.Status)
}

