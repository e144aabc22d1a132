// Package staging owns the per-job scratch directory.
//
// Stage copies matched inputs into a fresh job-<id> directory under
// sequential, zero-padded names (0001.mp4, 0002.mov, ...) so that the concat
// list encodes the merge order. Cleanup helpers remove a job's directory once
// the merge finishes and sweep leftovers from interrupted runs.
package staging
