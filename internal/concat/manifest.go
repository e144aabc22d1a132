package concat

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the list file written inside the scratch directory.
const ManifestName = "concat_list.txt"

// ManifestLine renders one list entry. Separators become forward slashes on
// every OS and embedded single quotes use the '\'' form the concat demuxer
// understands.
func ManifestLine(path string) string {
	normalized := strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
	escaped := strings.ReplaceAll(normalized, "'", `'\''`)
	return "file '" + escaped + "'\n"
}

// WriteManifest writes dir/concat_list.txt listing paths in order and returns
// its path. Relative paths are made absolute first.
func WriteManifest(dir string, paths []string) (string, error) {
	manifest := filepath.Join(dir, ManifestName)
	f, err := os.Create(manifest)
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = f.Close()
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		if _, err := w.WriteString(ManifestLine(abs)); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write concat list: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write concat list: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close concat list: %w", err)
	}
	return manifest, nil
}
