// Package store implements the local content-addressed cache.
//
// Objects are keyed by digest and laid out with a two-character shard:
//
//	<root>/ab/cdef0123...
//
// The store is append-only: an object is written once and never changed
// or removed.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/opencontainers/go-digest"
)

var (
	ErrNotFound       = errors.New("store: object not found")
	ErrWriteFailed    = errors.New("store: write failed")
	ErrDigestMismatch = errors.New("store: content does not match digest")
	ErrInvalidDigest  = errors.New("store: invalid digest")
)

// Store handles content storage keyed by digest.
type Store interface {
	// Has reports whether an object for d exists.
	Has(ctx context.Context, d digest.Digest) (bool, error)

	// Put stores the content of r under d. It is a no-op when the object
	// already exists. The returned bool is true if a new object was written.
	Put(ctx context.Context, d digest.Digest, r io.Reader) (bool, error)

	// Open returns a reader for the object stored under d.
	Open(ctx context.Context, d digest.Digest) (io.ReadCloser, error)

	// Path returns the filesystem location of the object for d.
	Path(d digest.Digest) string
}
