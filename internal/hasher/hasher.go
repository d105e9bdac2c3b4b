// Package hasher computes content identities for byte streams.
//
// Identities are go-digest digests ("sha256:<hex>"). Input is read in
// fixed-size chunks so memory use does not depend on file size.
package hasher

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
)

// DefaultBufferSize is the chunk size used when reading input.
const DefaultBufferSize = 32 * 1024

var (
	ErrUnsupportedAlgorithm = errors.New("hasher: unsupported algorithm")
	ErrRead                 = errors.New("hasher: read failed")
)

// Supported algorithms. SHA256 is the default.
const (
	SHA256 = digest.SHA256
	SHA384 = digest.SHA384
	SHA512 = digest.SHA512
)

// ParseAlgorithm maps a configured algorithm name to a digest algorithm.
// Names are case-insensitive and an empty name selects SHA256.
func ParseAlgorithm(name string) (digest.Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SHA256, nil
	}
	alg := digest.Algorithm(name)
	switch alg {
	case SHA256, SHA384, SHA512:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	if !alg.Available() {
		return "", fmt.Errorf("%w: %q not linked", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

// Hasher computes digests with a fixed algorithm.
type Hasher struct {
	alg        digest.Algorithm
	bufferSize int
}

// New returns a Hasher for alg. A bufferSize <= 0 uses DefaultBufferSize.
func New(alg digest.Algorithm, bufferSize int) (*Hasher, error) {
	if !alg.Available() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hasher{alg: alg, bufferSize: bufferSize}, nil
}

// Algorithm returns the algorithm used by h.
func (h *Hasher) Algorithm() digest.Algorithm {
	return h.alg
}

// Digest reads r to EOF and returns its digest and the number of bytes read.
// On a read error no digest is returned.
func (h *Hasher) Digest(r io.Reader) (digest.Digest, int64, error) {
	d := h.alg.Digester()
	buf := make([]byte, h.bufferSize)

	var n int64
	for {
		m, err := r.Read(buf)
		if m > 0 {
			d.Hash().Write(buf[:m])
			n += int64(m)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}

	return d.Digest(), n, nil
}

// DigestFile opens path and digests its content.
func (h *Hasher) DigestFile(path string) (digest.Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	return h.Digest(f)
}
