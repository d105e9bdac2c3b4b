// Package manifest reads and writes .dvc sidecar files.
//
// A sidecar binds a logical path to the digest of its content:
//
//	{
//	  "algorithm": "sha256",
//	  "hash": "<hex>",
//	  "path": "data/model.bin",
//	  "size_bytes": 1024
//	}
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Suffix is appended to the full original filename to name its sidecar.
	Suffix = ".dvc"

	// TempPrefix names in-flight sidecar writes.
	TempPrefix = ".dvc-tmp-"
)

var (
	ErrWriteFailed = errors.New("manifest: write failed")
	ErrInvalid     = errors.New("manifest: invalid")
)

// Manifest describes one tracked file.
type Manifest struct {
	Algorithm string `json:"algorithm"`
	Hash      string `json:"hash"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// Owned reports whether the file name belongs to a sidecar or to an
// interrupted sidecar write.
func Owned(name string) bool {
	name = filepath.Base(name)
	return strings.HasSuffix(name, Suffix) || strings.HasPrefix(name, TempPrefix)
}

// SidecarPath returns the sidecar location for path.
func SidecarPath(path string) string {
	return path + Suffix
}

// Write persists m as the sidecar of target, replacing any previous one.
// The document is written to a temp file and renamed into place.
func Write(target string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrWriteFailed, err)
	}
	data = append(data, '\n')

	sidecar := SidecarPath(target)
	tmp, err := os.CreateTemp(filepath.Dir(sidecar), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("%w: tmpfile: %w", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %w", ErrWriteFailed, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod: %w", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %w", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, sidecar); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %w", ErrWriteFailed, err)
	}
	return nil
}

// Read loads a sidecar file.
func Read(sidecar string) (*Manifest, error) {
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, sidecar, err)
	}
	if m.Algorithm == "" || m.Hash == "" || m.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: %s: missing fields", ErrInvalid, sidecar)
	}
	return &m, nil
}
