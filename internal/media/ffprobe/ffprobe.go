package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result is the decoded ffprobe response for one file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is a single stream entry.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

// Format is the container entry.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect runs binary (ffprobe when empty) against path.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

func (r Result) countType(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}

// VideoStreamCount returns the number of video streams.
func (r Result) VideoStreamCount() int { return r.countType("video") }

// AudioStreamCount returns the number of audio streams.
func (r Result) AudioStreamCount() int { return r.countType("audio") }

// VideoSignature identifies the first video stream as codec and frame size,
// e.g. "h264 1920x1080". Empty when the file has no video stream.
func (r Result) VideoSignature() string {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		codec := strings.ToLower(strings.TrimSpace(stream.CodecName))
		if stream.Width > 0 && stream.Height > 0 {
			return fmt.Sprintf("%s %dx%d", codec, stream.Width, stream.Height)
		}
		return codec
	}
	return ""
}

// DurationSeconds returns the container duration, 0 when absent and NaN when
// ffprobe reported something unparsable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the container size, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// Mismatch describes an input whose video signature differs from the first input's.
type Mismatch struct {
	Path      string
	Signature string
	Expected  string
}

// CompareSignatures returns the inputs whose video signature differs from the
// first non-empty one. Inputs without a signature are ignored.
func CompareSignatures(signatures map[string]string, order []string) []Mismatch {
	expected := ""
	var out []Mismatch
	for _, path := range order {
		sig := signatures[path]
		if sig == "" {
			continue
		}
		if expected == "" {
			expected = sig
			continue
		}
		if sig != expected {
			out = append(out, Mismatch{Path: path, Signature: sig, Expected: expected})
		}
	}
	return out
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
