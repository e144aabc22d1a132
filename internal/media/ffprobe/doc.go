// Package ffprobe wraps ffprobe's JSON output.
//
// Inspect runs ffprobe on one file. The Result helpers answer the questions
// the merge pipeline asks: how long the merged output is, how many streams it
// carries, and whether a set of inputs share a video codec so the concat
// demuxer can stream-copy them.
package ffprobe
