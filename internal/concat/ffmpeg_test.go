package concat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vidmerge/internal/logging"
)

// writeStub installs a fake ffmpeg that answers -version and otherwise runs body.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"-version\" ]; then echo 'ffmpeg version 7.0-test'; exit 0; fi\n" +
		body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckAvailable(t *testing.T) {
	m := &Merger{Binary: writeStub(t, "exit 0")}
	version, err := m.CheckAvailable(context.Background())
	if err != nil {
		t.Fatalf("CheckAvailable: %v", err)
	}
	if version != "ffmpeg version 7.0-test" {
		t.Fatalf("version = %q", version)
	}
}

func TestCheckAvailableMissing(t *testing.T) {
	m := &Merger{Binary: "definitely-not-ffmpeg-binary"}
	if _, err := m.CheckAvailable(context.Background()); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestCheckAvailableVersionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	m := &Merger{Binary: path}
	if _, err := m.CheckAvailable(context.Background()); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestMergePassesConcatArguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	stub := writeStub(t, `echo "$@" > "`+argsFile+`"
for last; do :; done
echo merged > "$last"`)

	manifest := filepath.Join(dir, ManifestName)
	output := filepath.Join(dir, "out.mp4")
	m := &Merger{Binary: stub, Logger: logging.NewNop()}
	if err := m.Merge(context.Background(), manifest, output); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	want := strings.Join(Args(manifest, output), " ")
	if strings.TrimSpace(string(args)) != want {
		t.Fatalf("args = %q, want %q", strings.TrimSpace(string(args)), want)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output written: %v", err)
	}
}

func TestMergeNonZeroExit(t *testing.T) {
	stub := writeStub(t, "echo 'frame=0' >&2\necho 'concat_list.txt: Invalid data found' >&2\nexit 1")
	m := &Merger{Binary: stub}

	err := m.Merge(context.Background(), "list.txt", "out.mp4")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T %v", err, err)
	}
	if exitErr.Code != 1 {
		t.Fatalf("Code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(exitErr.Stderr, "Invalid data found") {
		t.Fatalf("stderr not captured: %q", exitErr.Stderr)
	}
	if !strings.HasSuffix(exitErr.Error(), "concat_list.txt: Invalid data found") {
		t.Fatalf("Error() = %q", exitErr.Error())
	}
}

func TestMergeToolNotFoundSkipsInvocation(t *testing.T) {
	m := &Merger{Binary: filepath.Join(t.TempDir(), "missing-ffmpeg")}
	if err := m.Merge(context.Background(), "list.txt", "out.mp4"); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestMergeTimeout(t *testing.T) {
	stub := writeStub(t, "exec sleep 5")
	m := &Merger{Binary: stub, Timeout: 100 * time.Millisecond}

	err := m.Merge(context.Background(), "list.txt", "out.mp4")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTailBufferKeepsTail(t *testing.T) {
	buf := &tailBuffer{limit: 4}
	_, _ = buf.Write([]byte("abc"))
	_, _ = buf.Write([]byte("defg"))
	if buf.String() != "defg" {
		t.Fatalf("tail = %q", buf.String())
	}
}

func TestInvocationErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &InvocationError{Binary: "ffmpeg", Err: inner}
	if !errors.Is(err, inner) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCommandLine(t *testing.T) {
	m := &Merger{}
	want := "ffmpeg -hide_banner -f concat -safe 0 -i /s/concat_list.txt -c copy -y /out.mp4"
	if got := m.CommandLine("/s/concat_list.txt", "/out.mp4"); got != want {
		t.Fatalf("CommandLine = %q, want %q", got, want)
	}
}
