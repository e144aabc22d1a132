package concat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"vidmerge/internal/logging"
)

const (
	defaultBinary = "ffmpeg"
	// stderrLimit bounds the captured stderr tail.
	stderrLimit = 64 << 10
)

// Merger runs ffmpeg concatenations. The zero value uses "ffmpeg" from PATH
// with no timeout.
type Merger struct {
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

func (m *Merger) binary() string {
	if b := strings.TrimSpace(m.Binary); b != "" {
		return b
	}
	return defaultBinary
}

func (m *Merger) logger() *slog.Logger {
	if m.Logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(m.Logger, "ffmpeg")
}

// CheckAvailable resolves the binary and runs "<ffmpeg> -version". Any
// failure wraps ErrToolNotFound.
func (m *Merger) CheckAvailable(ctx context.Context) (string, error) {
	resolved, err := exec.LookPath(m.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	out, err := exec.CommandContext(ctx, resolved, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s -version: %v", ErrToolNotFound, resolved, err)
	}
	version, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(version), nil
}

// Args returns the ffmpeg arguments for a stream-copy concatenation.
func Args(manifest, output string) []string {
	return []string{"-hide_banner", "-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", "-y", output}
}

// CommandLine renders the ffmpeg invocation for display.
func (m *Merger) CommandLine(manifest, output string) string {
	return m.binary() + " " + strings.Join(Args(manifest, output), " ")
}

// Merge checks ffmpeg, then concatenates the files listed in manifest into
// output, overwriting it. It blocks until ffmpeg exits.
func (m *Merger) Merge(ctx context.Context, manifest, output string) error {
	logger := logging.WithContext(ctx, m.logger())

	version, err := m.CheckAvailable(ctx)
	if err != nil {
		return err
	}
	logger.Debug("ffmpeg available", logging.String("version", version))

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	args := Args(manifest, output)
	cmd := exec.CommandContext(ctx, m.binary(), args...)
	cmd.WaitDelay = 5 * time.Second
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr

	logger.Info("running ffmpeg",
		logging.String("command", m.CommandLine(manifest, output)),
		logging.String(logging.FieldEventType, "ffmpeg_start"),
	)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return &InvocationError{Binary: m.binary(), Err: err}
	}
	waitErr := cmd.Wait()
	if waitErr == nil {
		logger.Info("ffmpeg finished",
			logging.Duration("elapsed", time.Since(started)),
			logging.String(logging.FieldEventType, "ffmpeg_done"),
		)
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return &ExitError{Code: -1, Stderr: stderr.String(), Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return &InvocationError{Binary: m.binary(), Err: waitErr}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
