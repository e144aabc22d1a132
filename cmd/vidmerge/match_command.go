package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidmerge/internal/match"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <folder> <pdf>",
		Short: "Show which PDF entries resolve to files in a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			folder := absOrEmpty(strings.TrimSpace(args[0]))
			pdf := absOrEmpty(strings.TrimSpace(args[1]))

			names, err := newExtractor(cfg, logger).Extract(cmd.Context(), pdf)
			if err != nil {
				return fmt.Errorf("extract %s: %w", pdf, err)
			}
			result, err := match.Match(folder, names)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				matched := result.Matched
				if matched == nil {
					matched = []match.Entry{}
				}
				missing := result.Missing
				if missing == nil {
					missing = []string{}
				}
				return writeJSON(cmd, map[string]any{
					"folder":    folder,
					"pdf":       pdf,
					"filenames": len(names),
					"matched":   matched,
					"missing":   missing,
				})
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No video file names found")
				return nil
			}
			rows := make([][]string, 0, len(result.Matched)+len(result.Missing))
			for i, entry := range result.Matched {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Name, entry.Path})
			}
			for _, name := range result.Missing {
				rows = append(rows, []string{"-", name, "(missing)"})
			}
			fmt.Fprint(out, renderTable(
				[]string{"#", "Name", "File"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "\nMatched %d files out of %d\n", len(result.Matched), len(names))
			return nil
		},
	}
}
