// Package match resolves file names extracted from a PDF to files in a folder.
package match

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
)

// ErrFolderAccess reports that the source folder does not exist or cannot be listed.
var ErrFolderAccess = errors.New("folder access")

// Entry pairs a requested name with the file it resolved to.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Result partitions the requested names. Every requested name lands in
// exactly one of Matched or Missing, and both keep the request order.
type Result struct {
	Matched []Entry  `json:"matched"`
	Missing []string `json:"missing"`
}

// Paths returns the resolved paths of Matched in order.
func (r Result) Paths() []string {
	paths := make([]string, len(r.Matched))
	for i, entry := range r.Matched {
		paths[i] = entry.Path
	}
	return paths
}

// Match resolves each name to an immediate child of folder by case-insensitive
// equality. Subdirectories are never matched. Resolved paths are absolute and
// keep the on-disk spelling.
func Match(folder string, names []string) (Result, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFolderAccess, folder, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFolderAccess, folder, err)
	}

	idx := newIndex(entries)
	result := Result{
		Matched: make([]Entry, 0, len(names)),
		Missing: make([]string, 0),
	}
	for _, name := range names {
		actual, ok := idx.lookup(name)
		if !ok {
			result.Missing = append(result.Missing, name)
			continue
		}
		result.Matched = append(result.Matched, Entry{Name: name, Path: filepath.Join(abs, actual)})
	}
	return result, nil
}

// index maps case-folded names to on-disk names. When several entries fold to
// the same key the first in directory order wins, unless the lookup spells one
// of them exactly.
type index struct {
	folder cases.Caser
	byFold map[string]string
	exact  map[string]struct{}
}

func newIndex(entries []os.DirEntry) *index {
	idx := &index{
		folder: cases.Fold(),
		byFold: make(map[string]string, len(entries)),
		exact:  make(map[string]struct{}, len(entries)),
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		idx.exact[name] = struct{}{}
		key := idx.folder.String(name)
		if _, taken := idx.byFold[key]; !taken {
			idx.byFold[key] = name
		}
	}
	return idx
}

func (idx *index) lookup(name string) (string, bool) {
	if _, ok := idx.exact[name]; ok {
		return name, true
	}
	actual, ok := idx.byFold[idx.folder.String(name)]
	return actual, ok
}
