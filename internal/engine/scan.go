package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"imgbake/pkg/imgutil"
)

// Scan enumerates candidate image paths under root. Flat mode reads the
// directory itself and sorts lexicographically; recursive mode walks the
// whole tree in traversal order. Non-files and unrecognized extensions are
// filtered out.
func Scan(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input folder %s: %w", root, ErrNotFound)
	}

	if !recursive {
		return scanFlat(root)
	}
	return scanRecursive(root)
}

func scanFlat(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !imgutil.IsImagePath(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func scanRecursive(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if imgutil.IsImagePath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// DirSize sums the size of every regular file under root, not just image
// candidates. Files that vanish mid-walk are ignored.
func DirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
