package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExtractCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeLesson(t, "intro.mp4 then Lesson 2.MKV\n\fintro.mp4\n", nil)

	out, _, err := runCLI(t, []string{"extract", env.pdf}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "intro.mp4\n2.MKV\nintro.mp4\n")

	out, _, err = runCLI(t, []string{"--json", "extract", env.pdf}, env.configPath)
	if err != nil {
		t.Fatalf("extract --json: %v", err)
	}
	var payload struct {
		Backend   string   `json:"backend"`
		Filenames []string `json:"filenames"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Backend != "pdftotext" || len(payload.Filenames) != 3 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestMatchCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeLesson(t, "a.mp4 b.mp4\n", map[string]string{"A.MP4": "x"})

	out, _, err := runCLI(t, []string{"match", env.folder, env.pdf}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "A.MP4")
	requireContains(t, out, "(missing)")
	requireContains(t, out, "Matched 1 files out of 2")
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, out)
	}
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "(optional)")
}

func TestCleanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	old := filepath.Join(env.scratchDir, "job-old")
	keep := filepath.Join(env.scratchDir, "unrelated")
	for _, dir := range []string{old, keep} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"clean", "--list"}, env.configPath)
	if err != nil {
		t.Fatalf("clean --list: %v", err)
	}
	requireContains(t, out, "job-old")

	out, _, err = runCLI(t, []string{"clean"}, env.configPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "Removed 1 stale directories")
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", old)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected %s kept: %v", keep, err)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No merge history")
}

func TestTestNotifyUnconfigured(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "not configured")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "PDF backend: pdftotext")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
