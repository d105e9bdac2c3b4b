// Package walker expands a path into the regular files to track.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// DefaultControlDir is the directory name skipped at any depth.
const DefaultControlDir = ".udv"

var (
	ErrNotFound            = errors.New("walker: path not found")
	ErrUnsupportedFileType = errors.New("walker: unsupported file type")
)

type options struct {
	controlDir string
}

// Option configures Walk.
type Option func(*options)

// WithControlDir sets the directory name excluded from traversal.
func WithControlDir(name string) Option {
	return func(o *options) {
		if name != "" {
			o.controlDir = name
		}
	}
}

// Walk yields every regular file under root in lexicographic order. A file
// root yields only itself. Directories named like the control directory are
// skipped wherever they appear below root.
//
// Each call performs a fresh traversal. A missing root yields a single
// error wrapping ErrNotFound. Symlinks and other non-regular entries are
// yielded with an error wrapping ErrUnsupportedFileType; traversal then
// continues.
func Walk(root string, opts ...Option) iter.Seq2[string, error] {
	o := options{controlDir: DefaultControlDir}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(string, error) bool) {
		info, err := os.Lstat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				yield(root, fmt.Errorf("%w: %s", ErrNotFound, root))
				return
			}
			yield(root, fmt.Errorf("stat %s: %w", root, err))
			return
		}

		if !info.IsDir() {
			if !info.Mode().IsRegular() {
				yield(root, unsupported(root, info.Mode()))
				return
			}
			yield(root, nil)
			return
		}

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, fmt.Errorf("walk %s: %w", path, err)) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && d.Name() == o.controlDir {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				if !yield(path, unsupported(path, d.Type())) {
					return filepath.SkipAll
				}
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Files collects the paths produced by Walk. Entries that fail are returned
// separately so callers can continue with the rest.
func Files(root string, opts ...Option) (files []string, failed map[string]error) {
	for path, err := range Walk(root, opts...) {
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[path] = err
			continue
		}
		files = append(files, path)
	}
	return files, failed
}

func unsupported(path string, mode fs.FileMode) error {
	kind := "irregular file"
	switch {
	case mode&fs.ModeSymlink != 0:
		kind = "symlink"
	case mode&fs.ModeNamedPipe != 0:
		kind = "named pipe"
	case mode&fs.ModeSocket != 0:
		kind = "socket"
	case mode&fs.ModeDevice != 0:
		kind = "device"
	}
	return fmt.Errorf("%w: %s is a %s", ErrUnsupportedFileType, path, kind)
}
