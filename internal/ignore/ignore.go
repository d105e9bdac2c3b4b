// Package ignore keeps tracked paths listed in the git ignore file.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// FileName is the ignore file kept at the project root.
	FileName = ".gitignore"

	// TempPrefix names in-flight rewrites of the ignore file.
	TempPrefix = ".gitignore-tmp-"
)

var ErrWriteFailed = errors.New("ignore: write failed")

// File is an append-only set of entries persisted in a plain-text file.
// Existing content is preserved verbatim.
//
// Membership is a substring test against the whole file: an entry that is
// a substring of an already listed path counts as present.
type File struct {
	path string
	mu   sync.Mutex
}

// New returns a File backed by path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Record appends entry unless the file already contains it. It reports
// whether the file was changed. Calls are serialized.
func (f *File) Record(entry string) (bool, error) {
	if entry == "" {
		return false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	content, err := f.read()
	if err != nil {
		return false, err
	}
	if strings.Contains(content, entry) {
		return false, nil
	}

	if err := f.write(content + "\n" + entry); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether entry is already listed.
func (f *File) Contains(entry string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, err := f.read()
	if err != nil {
		return false, err
	}
	return strings.Contains(content, entry), nil
}

func (f *File) read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}
	return string(data), nil
}

func (f *File) write(content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("%w: tmpfile: %w", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %w", ErrWriteFailed, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod: %w", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %w", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %w", ErrWriteFailed, err)
	}
	return nil
}
