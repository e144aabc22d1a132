package concat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManifestLine(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain", "/tmp/job-1/0001.mp4", "file '/tmp/job-1/0001.mp4'\n"},
		{"backslashes", `C:\scratch\0002.MOV`, "file 'C:/scratch/0002.MOV'\n"},
		{"quote", "/tmp/it's/0003.mkv", `file '/tmp/it'\''s/0003.mkv'` + "\n"},
		{"spaces", "/tmp/my clips/0004.mp4", "file '/tmp/my clips/0004.mp4'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ManifestLine(tt.path); got != tt.want {
				t.Fatalf("ManifestLine(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "0001.mp4"),
		filepath.Join(dir, "0002.MOV"),
	}

	manifest, err := WriteManifest(dir, paths)
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if manifest != filepath.Join(dir, ManifestName) {
		t.Fatalf("manifest path = %q", manifest)
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	want := "file '" + filepath.ToSlash(paths[0]) + "'\n" +
		"file '" + filepath.ToSlash(paths[1]) + "'\n"
	if string(data) != want {
		t.Fatalf("manifest content:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteManifestEmpty(t *testing.T) {
	dir := t.TempDir()
	manifest, err := WriteManifest(dir, nil)
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	info, err := os.Stat(manifest)
	if err != nil {
		t.Fatalf("stat manifest: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty manifest, got %d bytes", info.Size())
	}
}

func TestWriteManifestMissingDir(t *testing.T) {
	if _, err := WriteManifest(filepath.Join(t.TempDir(), "absent"), []string{"/a.mp4"}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
