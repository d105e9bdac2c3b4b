package udv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aweris/udv/internal/hasher"
	"github.com/aweris/udv/internal/manifest"
	"github.com/aweris/udv/internal/store"
	"github.com/opencontainers/go-digest"
)

// Verify checks that the cache object referenced by the sidecar of path is
// present and still hashes to the recorded digest and size.
func (p *Project) Verify(ctx context.Context, path string) (*TrackedFile, error) {
	sidecar := manifest.SidecarPath(p.resolve(path))

	m, err := manifest.Read(sidecar)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, manifest.SidecarPath(path))
		}
		return nil, err
	}

	d := digest.NewDigestFromEncoded(digest.Algorithm(m.Algorithm), m.Hash)
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	h, err := hasher.New(d.Algorithm(), p.bufferSize)
	if err != nil {
		return nil, err
	}

	rc, err := p.store.Open(ctx, d)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer rc.Close()

	got, size, err := h.Digest(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if got != d {
		return nil, fmt.Errorf("%w: %s: cache holds %s, manifest records %s", ErrCorrupt, path, got, d)
	}
	if size != m.SizeBytes {
		return nil, fmt.Errorf("%w: %s: cache holds %d bytes, manifest records %d", ErrCorrupt, path, size, m.SizeBytes)
	}

	fmt.Fprintf(p.log, "[verify] %s %s ok\n", m.Path, shortDigest(d))

	return &TrackedFile{Path: m.Path, Digest: d, SizeBytes: size}, nil
}
