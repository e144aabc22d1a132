// Package history keeps a SQLite log of finished merge jobs.
//
// Each run appends one row to merge_jobs with its inputs, outcome and counts.
// The table is write-once reporting data for `vidmerge history`; nothing in
// the pipeline reads it back.
package history
