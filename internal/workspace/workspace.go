// Package workspace inspects and prepares the mission data directory.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/litescript/ls-mission/internal/safeload"
)

// File is a regular file directly under the data root.
type File struct {
	Name string
	Size int64 // bytes
}

// SizeKiB returns the size in kibibytes.
func (f File) SizeKiB() float64 {
	return float64(f.Size) / 1024
}

// List returns the regular files directly under root, sorted by name.
// Subdirectories are skipped. A missing root is reported as
// safeload.ErrNotFound.
func List(root string) ([]File, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", safeload.ErrNotFound, root)
		}
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	var files []File
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, File{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// EnsureDirs creates each named subdirectory of root that does not exist
// yet and returns the names it created, in argument order.
func EnsureDirs(root string, names ...string) ([]string, error) {
	var created []string
	for _, name := range names {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			continue
		case err == nil:
			return created, fmt.Errorf("%s exists and is not a directory", path)
		case !errors.Is(err, fs.ErrNotExist):
			return created, fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return created, fmt.Errorf("create %s: %w", path, err)
		}
		created = append(created, name)
	}
	return created, nil
}
