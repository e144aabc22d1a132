// Package concat drives ffmpeg's concat demuxer.
//
// WriteManifest renders the ordered list file ffmpeg reads, and Merger runs
// ffmpeg in stream-copy mode against it. Merger failures are typed so callers
// can tell a missing tool (ErrToolNotFound) from a process that could not be
// started (*InvocationError) and from one that exited non-zero (*ExitError,
// carrying captured stderr).
package concat
