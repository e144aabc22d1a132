// Package main hosts the vidmerge CLI.
//
// `vidmerge merge` is the main entry point: it resolves the folder, PDF and
// output paths (from flags or native dialogs), runs preflight checks, takes
// the job lock and drives internal/pipeline with a console reporter. The
// other commands expose single steps (extract, match), maintenance (clean,
// history) and setup (deps, config).
package main
