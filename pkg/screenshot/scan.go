package screenshot

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FailedDir is the name of the directory the capture service moves rejected
// screenshots into. It is never descended.
const FailedDir = "failed"

// Scan walks root recursively and returns the screenshot files found, in
// lexical order.
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (name == FailedDir || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsCandidate(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// IsCandidate reports whether a file name is a screenshot worth matching.
// Hidden files, editor backups and captures of an undefined URL are skipped.
func IsCandidate(name string) bool {
	switch {
	case strings.HasPrefix(name, "."):
		return false
	case strings.HasPrefix(name, "undefined"):
		return false
	case strings.HasSuffix(name, "~"):
		return false
	}
	return IsImage(name)
}
