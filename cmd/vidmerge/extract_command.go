package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <pdf>",
		Short: "List the video file names found in a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			pdf := absOrEmpty(strings.TrimSpace(args[0]))
			extractor := newExtractor(cfg, logger)
			names, err := extractor.Extract(cmd.Context(), pdf)
			if err != nil {
				return fmt.Errorf("extract %s: %w", pdf, err)
			}

			if ctx.JSONMode() {
				if names == nil {
					names = []string{}
				}
				return writeJSON(cmd, map[string]any{
					"pdf":       pdf,
					"backend":   extractor.BackendName(),
					"filenames": names,
				})
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No video file names found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
