package udv

import (
	"io"

	"github.com/aweris/udv/internal/hasher"
	"github.com/opencontainers/go-digest"
)

// Default locations relative to the project root.
const (
	ControlDir = ".udv"
	CacheDir   = "cache"
	ConfigFile = "config"
)

// OpenOptions configures a Project.
type OpenOptions struct {
	Algorithm  digest.Algorithm
	Jobs       int
	BufferSize int
	LogOutput  io.Writer
}

// OpenOption is a functional option for configuring Open.
type OpenOption func(*OpenOptions)

func defaultOptions() *OpenOptions {
	return &OpenOptions{
		Algorithm:  hasher.SHA256,
		Jobs:       1,
		BufferSize: hasher.DefaultBufferSize,
		LogOutput:  io.Discard,
	}
}

// WithAlgorithm sets the hash algorithm used for content identities.
func WithAlgorithm(alg digest.Algorithm) OpenOption {
	return func(o *OpenOptions) {
		if alg != "" {
			o.Algorithm = alg
		}
	}
}

// WithJobs sets the number of files processed in parallel during an add.
func WithJobs(n int) OpenOption {
	return func(o *OpenOptions) {
		if n > 0 {
			o.Jobs = n
		}
	}
}

// WithBufferSize sets the read chunk size used while hashing.
func WithBufferSize(n int) OpenOption {
	return func(o *OpenOptions) {
		if n > 0 {
			o.BufferSize = n
		}
	}
}

// WithLogOutput sets where progress lines are written.
func WithLogOutput(w io.Writer) OpenOption {
	return func(o *OpenOptions) {
		if w != nil {
			o.LogOutput = w
		}
	}
}
