package concat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound reports that ffmpeg is missing or fails its -version check.
var ErrToolNotFound = errors.New("ffmpeg not found")

// InvocationError reports that ffmpeg could not be started.
type InvocationError struct {
	Binary string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Binary, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ExitError reports an ffmpeg run that did not exit cleanly. Code is -1 when
// the process was killed. Err holds the context error when the run was
// canceled or timed out.
type ExitError struct {
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ffmpeg stopped: %v", e.Err)
	}
	msg := fmt.Sprintf("ffmpeg exited with status %d", e.Code)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
