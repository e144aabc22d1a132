// Package preflight checks the environment before a merge starts.
//
// Checks report rather than fail: each returns a Result with a one-line
// detail so `vidmerge deps` can print them as a table and `vidmerge merge`
// can stop early with a clear message.
package preflight
