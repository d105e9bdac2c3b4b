package udv

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/aweris/udv/internal/manifest"
	"github.com/aweris/udv/internal/walker"
	"github.com/opencontainers/go-digest"
)

// List yields the files tracked under prefix, read from their sidecars in
// lexicographic order. An empty prefix lists the whole project. Unreadable
// sidecars are yielded as errors and the listing continues.
func (p *Project) List(prefix string) iter.Seq2[TrackedFile, error] {
	return func(yield func(TrackedFile, error) bool) {
		for path, err := range walker.Walk(p.resolve(prefix), walker.WithControlDir(ControlDir)) {
			if err != nil {
				if errors.Is(err, walker.ErrUnsupportedFileType) {
					continue
				}
				if errors.Is(err, walker.ErrNotFound) {
					err = fmt.Errorf("%w: %s", ErrNotFound, prefix)
				}
				if !yield(TrackedFile{}, err) {
					return
				}
				continue
			}
			if !strings.HasSuffix(path, manifest.Suffix) {
				continue
			}

			m, err := manifest.Read(path)
			if err != nil {
				if !yield(TrackedFile{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, p.display(path), err)) {
					return
				}
				continue
			}

			d := digest.NewDigestFromEncoded(digest.Algorithm(m.Algorithm), m.Hash)
			if !yield(TrackedFile{Path: m.Path, Digest: d, SizeBytes: m.SizeBytes}, nil) {
				return
			}
		}
	}
}
