package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
)

const objectPerm = 0o444

// LocalStore implements Store on the local filesystem.
//
// Storage layout:
//
//	root/
//	  ab/cd123...  (object content, byte-identical to the tracked file)
//	  ab/.tmp-*    (in-flight writes, linked into place on success)
type LocalStore struct {
	root string
}

// NewLocalStore returns a store rooted at root. Directories are created
// lazily on first write.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the cache directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Has checks if an object exists.
func (s *LocalStore) Has(ctx context.Context, d digest.Digest) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidDigest, err)
	}
	_, err := os.Stat(s.Path(d))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Put writes r under d via a temp file in the shard directory that is then
// linked into place. Content that does not hash to d is rejected. When
// several writers race on the same digest, exactly one reports a new object.
func (s *LocalStore) Put(ctx context.Context, d digest.Digest, r io.Reader) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	exists, err := s.Has(ctx, d)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if exists {
		return false, nil
	}

	path := s.Path(d)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("%w: create shard %s: %w", ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return false, fmt.Errorf("%w: create temp: %w", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	verifier := d.Verifier()
	if _, err := io.Copy(io.MultiWriter(tmp, verifier), r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, fmt.Errorf("%w: copy %s: %w", ErrWriteFailed, d, err)
	}
	if !verifier.Verified() {
		tmp.Close()
		os.Remove(tmpName)
		return false, fmt.Errorf("%w: %w: %s", ErrWriteFailed, ErrDigestMismatch, d)
	}
	if err := tmp.Chmod(objectPerm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, fmt.Errorf("%w: chmod: %w", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("%w: close: %w", ErrWriteFailed, err)
	}

	// Link fails if the object exists; a committed object is never replaced.
	err = os.Link(tmpName, path)
	os.Remove(tmpName)
	if err != nil {
		// A concurrent writer of the same content got there first.
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: link: %w", ErrWriteFailed, err)
	}

	return true, nil
}

// Open opens the object stored under d.
func (s *LocalStore) Open(ctx context.Context, d digest.Digest) (io.ReadCloser, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDigest, err)
	}
	f, err := os.Open(s.Path(d))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, d)
		}
		return nil, fmt.Errorf("open object %s: %w", d, err)
	}
	return f, nil
}

// Path returns the filesystem path for an object digest.
// Git-style sharding: ab/cd123...
func (s *LocalStore) Path(d digest.Digest) string {
	_, hex, ok := strings.Cut(string(d), ":")
	if !ok {
		hex = string(d)
	}
	if len(hex) < 3 {
		return filepath.Join(s.root, hex)
	}
	return filepath.Join(s.root, hex[:2], hex[2:])
}
