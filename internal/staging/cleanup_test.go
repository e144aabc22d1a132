package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidmerge/internal/logging"
)

func makeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("set time on %s: %v", path, err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q, got %+v", dir, result)
		}
	}
}

func TestCleanStaleRemovesOldJobDirectories(t *testing.T) {
	root := t.TempDir()

	oldDir := filepath.Join(root, "job-old")
	newDir := filepath.Join(root, "job-new")
	makeAged(t, oldDir, 2*time.Hour)
	makeAged(t, newDir, time.Minute)

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("removed = %v, want [%s]", result.Removed, oldDir)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old job directory should have been removed")
	}
	if _, err := os.Stat(newDir); err != nil {
		t.Error("recent job directory should still exist")
	}
}

func TestCleanStaleIgnoresForeignEntries(t *testing.T) {
	root := t.TempDir()

	foreign := filepath.Join(root, "photos")
	makeAged(t, foreign, 48*time.Hour)

	oldFile := filepath.Join(root, "job-file.txt")
	if err := os.WriteFile(oldFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, stamp, stamp); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %v", result.Removed)
	}
	for _, path := range []string{foreign, oldFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s should not have been removed", path)
		}
	}
}

func TestCleanStaleStopsOnCanceledContext(t *testing.T) {
	root := t.TempDir()
	makeAged(t, filepath.Join(root, "job-a"), 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := CleanStale(ctx, root, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals after cancel, got %v", result.Removed)
	}
}

func TestListDirectoriesInvalidPaths(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/12345"} {
		dirs, err := ListDirectories(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if dirs != nil {
			t.Errorf("expected nil for path %q, got %v", path, dirs)
		}
	}
}

func TestListDirectories(t *testing.T) {
	root := t.TempDir()

	dir1 := filepath.Join(root, "job-1")
	if err := os.Mkdir(dir1, 0o755); err != nil {
		t.Fatalf("create dir1: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "job-2"), 0o755); err != nil {
		t.Fatalf("create dir2: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "unrelated"), 0o755); err != nil {
		t.Fatalf("create unrelated: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "0001.mp4"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("create inner file: %v", err)
	}

	dirs, err := ListDirectories(root)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directories, got %d", len(dirs))
	}

	var found bool
	for _, d := range dirs {
		if d.Name == "job-1" {
			found = true
			if d.Size != 5 {
				t.Errorf("job-1 size = %d, want 5", d.Size)
			}
			if d.Path != dir1 {
				t.Errorf("Path = %q, want %q", d.Path, dir1)
			}
			if d.ModTime.IsZero() {
				t.Error("ModTime should not be zero")
			}
		}
	}
	if !found {
		t.Error("did not find job-1 in results")
	}
}
