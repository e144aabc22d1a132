package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vidmerge/internal/joblock"
	"vidmerge/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var cleanAll bool
	var list bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover scratch directories",
		Long: `Remove job scratch directories left behind by interrupted or kept merges.

By default only directories older than staging.stale_hours are removed.
Use --all to remove every job directory, or --list to only show them.`,
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
			root := cfg.Staging.Dir

			if list {
				return printScratchDirectories(cmd, ctx, root)
			}

			maxAge := cfg.StaleScratchAge()
			if cleanAll {
				maxAge = 0
				lock, err := joblock.Acquire(cfg.LockPath())
				if err != nil {
					return err
				}
				defer lock.Release()
			} else if maxAge <= 0 {
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"removed": 0, "errors": []string{}})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stale cleanup disabled (staging.stale_hours = 0); use --all")
				return nil
			}

			result := staging.CleanStale(cmd.Context(), root, maxAge, logger)
			if ctx.JSONMode() {
				errs := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					errs = append(errs, fmt.Sprintf("%s: %v", e.Path, e.Error))
				}
				return writeJSON(cmd, map[string]any{
					"removed": len(result.Removed),
					"errors":  errs,
				})
			}

			out := cmd.OutOrStdout()
			label := "stale"
			if cleanAll {
				label = "scratch"
			}
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintf(out, "No %s directories to clean\n", label)
				return nil
			}
			fmt.Fprintf(out, "Removed %d %s directories", len(result.Removed), label)
			if len(result.Errors) > 0 {
				fmt.Fprintf(out, ", %d errors", len(result.Errors))
			}
			fmt.Fprintln(out)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cleanAll, "all", false, "Remove all job scratch directories regardless of age")
	cmd.Flags().BoolVar(&list, "list", false, "List scratch directories without removing them")
	return cmd
}

func printScratchDirectories(cmd *cobra.Command, ctx *commandContext, root string) error {
	dirs, err := staging.ListDirectories(root)
	if err != nil {
		return fmt.Errorf("list scratch directories: %w", err)
	}
	var totalSize int64
	for _, dir := range dirs {
		totalSize += dir.Size
	}

	if ctx.JSONMode() {
		if dirs == nil {
			dirs = []staging.DirInfo{}
		}
		return writeJSON(cmd, map[string]any{
			"scratch_dir":      root,
			"directories":      dirs,
			"total_size_bytes": totalSize,
		})
	}

	out := cmd.OutOrStdout()
	if len(dirs) == 0 {
		fmt.Fprintln(out, "No scratch directories found")
		return nil
	}
	fmt.Fprintf(out, "Scratch directory: %s\n\n", root)
	rows := make([][]string, 0, len(dirs))
	for _, dir := range dirs {
		age := time.Since(dir.ModTime).Truncate(time.Minute)
		rows = append(rows, []string{dir.Name, formatDuration(age), formatBytes(dir.Size)})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Job", "Age", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
	fmt.Fprintf(out, "\nTotal: %d directories, %s\n", len(dirs), formatBytes(totalSize))
	return nil
}
