// Package pipeline runs one merge job end to end.
//
// Run walks the job through validating, extracting, matching, staging,
// manifest and merging, reporting each step, log line and progress change to
// a Reporter. Once validation passes the reporter is marked busy, and it is
// always released again (progress back to 0, step back to idle) whatever the
// outcome, including a recovered panic.
//
// Failures come back as *Error values tagged with a Kind so callers can tell
// "no filenames found" from "ffmpeg exited non-zero" without string matching.
package pipeline
