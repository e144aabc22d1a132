package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	scratchDir string
	folder     string
	pdf        string
}

// pdftotextStub treats the "PDF" as plain text: it prints the file named by
// its fourth argument.
const pdftotextStub = `#!/bin/sh
cat "$4"
`

// ffmpegStub answers -version and otherwise concatenates the files named in
// the concat list into the last argument.
const ffmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffmpeg version stub"; exit 0; fi
list=""
prev=""
out=""
for arg; do
  if [ "$prev" = "-i" ]; then list="$arg"; fi
  prev="$arg"
  out="$arg"
done
: > "$out"
sed -e "s/^file '//" -e "s/'$//" "$list" | while read -r f; do cat "$f" >> "$out"; done
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	binDir := filepath.Join(base, "bin")
	for _, dir := range []string{homeDir, binDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("VIDMERGE_FFMPEG", "")
	t.Setenv("VIDMERGE_NTFY_TOPIC", "")

	pdftotext := writeStub(t, binDir, "pdftotext", pdftotextStub)
	ffmpeg := writeStub(t, binDir, "ffmpeg", ffmpegStub)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(homeDir, ".config", "vidmerge", "config.toml"),
		stateDir:   filepath.Join(base, "state"),
		scratchDir: filepath.Join(base, "scratch"),
		folder:     filepath.Join(base, "videos"),
		pdf:        filepath.Join(base, "lesson.pdf"),
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.MkdirAll(env.folder, 0o755); err != nil {
		t.Fatalf("mkdir folder: %v", err)
	}

	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[pdf]
backend = "pdftotext"
pdftotext_binary = %q

[merge]
ffmpeg_binary = %q
ffprobe_binary = %q
verify_output = false

[staging]
dir = %q

[history]
enabled = true
limit = 10
`,
		env.stateDir,
		filepath.Join(base, "logs"),
		pdftotext,
		ffmpeg,
		filepath.Join(binDir, "ffprobe-missing"),
		env.scratchDir,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

// writeLesson writes the fake PDF text and a video file for each of present.
func (e *cliTestEnv) writeLesson(t *testing.T, text string, present map[string]string) {
	t.Helper()
	if err := os.WriteFile(e.pdf, []byte(text), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	for name, body := range present {
		if err := os.WriteFile(filepath.Join(e.folder, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write video %s: %v", name, err)
		}
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
