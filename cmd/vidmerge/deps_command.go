package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidmerge/internal/deps"
	"vidmerge/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cfg)
			checks := preflight.RunAll(cmd.Context(), cfg, preflight.Inputs{})
			missing := deps.MissingRequired(statuses)

			if ctx.JSONMode() {
				if err := writeJSON(cmd, map[string]any{
					"dependencies": statuses,
					"checks":       checks,
					"ok":           len(missing) == 0 && len(preflight.Failed(checks)) == 0,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, status := range statuses {
					fmt.Fprintln(out, renderStatusLine(status.Name, dependencyKind(status), dependencyDetail(status), colorize))
				}
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Checks", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, check := range checks {
					kind := statusOK
					if !check.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}
			}

			if len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyDetail(status deps.Status) string {
	if status.Available {
		return status.Resolved
	}
	detail := status.Detail
	if status.Optional {
		detail += " (optional)"
	}
	return detail
}
