package collage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// atomicFile buffers writes to a temporary file next to path and renames it
// into place on Commit.
type atomicFile struct {
	*bufio.Writer
	f    *os.File
	path string
}

func createAtomic(path string) (*atomicFile, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &atomicFile{Writer: bufio.NewWriterSize(f, 1<<16), f: f, path: path}, nil
}

// Commit flushes the file and moves it to its final path.
func (a *atomicFile) Commit() error {
	if err := a.Flush(); err != nil {
		a.Abort()
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	if err := a.f.Chmod(0644); err != nil {
		a.Abort()
		return fmt.Errorf("chmod %s: %w", a.path, err)
	}
	if err := a.f.Close(); err != nil {
		os.Remove(a.f.Name())
		return fmt.Errorf("close %s: %w", a.path, err)
	}
	if err := os.Rename(a.f.Name(), a.path); err != nil {
		os.Remove(a.f.Name())
		return fmt.Errorf("rename %s: %w", a.path, err)
	}
	return nil
}

// Abort discards the temporary file.
func (a *atomicFile) Abort() {
	a.f.Close()
	os.Remove(a.f.Name())
}
