package udv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aweris/udv/internal/hasher"
	"github.com/aweris/udv/internal/ignore"
	"github.com/aweris/udv/internal/manifest"
	"github.com/aweris/udv/internal/store"
	"github.com/aweris/udv/internal/walker"
	"github.com/opencontainers/go-digest"
	"github.com/sourcegraph/conc/pool"
)

// Project tracks large files in one git working tree.
type Project struct {
	root       string
	store      *store.LocalStore
	hasher     *hasher.Hasher
	ignore     *ignore.File
	jobs       int
	bufferSize int
	log        io.Writer
}

// TrackedFile is the outcome of tracking one file.
type TrackedFile struct {
	Path      string // relative to the project root, slash-separated
	Digest    digest.Digest
	SizeBytes int64
	Stored    bool // a new cache object was written
}

// AddResult lists the files tracked by an add.
type AddResult struct {
	Path  string
	Files []TrackedFile
}

// Open returns a Project rooted at root. It does not check that the project
// was initialized; see Init and Initialized.
func Open(root string, opts ...OpenOption) (*Project, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	h, err := hasher.New(options.Algorithm, options.BufferSize)
	if err != nil {
		return nil, err
	}

	return &Project{
		root:       abs,
		store:      store.NewLocalStore(filepath.Join(abs, ControlDir, CacheDir)),
		hasher:     h,
		ignore:     ignore.New(filepath.Join(abs, ignore.FileName)),
		jobs:       options.Jobs,
		bufferSize: options.BufferSize,
		log:        &syncWriter{w: options.LogOutput},
	}, nil
}

// Root returns the absolute project root.
func (p *Project) Root() string { return p.root }

// CacheDir returns the content cache directory.
func (p *Project) CacheDir() string { return p.store.Root() }

// ObjectPath returns where the cache keeps the content for d.
func (p *Project) ObjectPath(d digest.Digest) string { return p.store.Path(d) }

// Algorithm returns the hash algorithm used for new content.
func (p *Project) Algorithm() digest.Algorithm { return p.hasher.Algorithm() }

// IgnorePath returns the project's .gitignore path.
func (p *Project) IgnorePath() string { return p.ignore.Path() }

// SidecarPath returns the .dvc manifest location for a path relative to the root.
func (p *Project) SidecarPath(logical string) string {
	return manifest.SidecarPath(p.resolve(logical))
}

// Add tracks path, a file or a directory. Relative paths are resolved
// against the project root.
//
// Sidecars and leftovers of interrupted udv writes are never tracked: they
// are skipped inside directories and rejected as a single path.
//
// For a single file, the first failure is returned as a *FileError. For a
// directory, every file is attempted; failures are collected into an
// *AddError returned alongside the result of the files that succeeded.
func (p *Project) Add(ctx context.Context, path string) (*AddResult, error) {
	target := p.resolve(path)

	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}

	rel, err := p.logical(target)
	if err != nil {
		return nil, err
	}
	if inControlDir(rel) {
		return nil, fmt.Errorf("%w: %s", ErrControlDir, rel)
	}
	if !info.IsDir() && managedFile(target) {
		return nil, fmt.Errorf("%w: %s", ErrManagedFile, rel)
	}

	files, walkErrs := walker.Files(target, walker.WithControlDir(ControlDir))
	files = slices.DeleteFunc(files, managedFile)

	var failures []*FileError
	for f, err := range walkErrs {
		if errors.Is(err, walker.ErrNotFound) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		failures = append(failures, &FileError{Path: p.display(f), Stage: StageExpanding, Err: err})
	}

	if info.IsDir() {
		fmt.Fprintf(p.log, "[add] %s: %d files\n", rel, len(files))
	}

	outcomes := make([]addOutcome, len(files))
	wp := pool.New().WithMaxGoroutines(p.jobs).WithContext(ctx)
	for i, file := range files {
		wp.Go(func(ctx context.Context) error {
			tf, ferr := p.addFile(ctx, file)
			outcomes[i] = addOutcome{file: tf, err: ferr}
			return nil
		})
	}
	_ = wp.Wait()

	result := &AddResult{Path: rel}
	for _, o := range outcomes {
		if o.err != nil {
			failures = append(failures, o.err)
			continue
		}
		result.Files = append(result.Files, o.file)
	}

	if len(failures) == 0 {
		return result, nil
	}

	if !info.IsDir() {
		return nil, failures[0]
	}

	slices.SortFunc(failures, func(a, b *FileError) int {
		return strings.Compare(a.Path, b.Path)
	})
	fmt.Fprintf(p.log, "[add] %s: %d added, %d failed\n", rel, len(result.Files), len(failures))

	return result, &AddError{
		Root:     rel,
		Total:    len(files) + len(walkErrs),
		Failures: failures,
	}
}

type addOutcome struct {
	file TrackedFile
	err  *FileError
}

// addFile runs hash, store, manifest and ignore for one file.
func (p *Project) addFile(ctx context.Context, path string) (TrackedFile, *FileError) {
	rel := p.display(path)
	fail := func(stage Stage, err error) (TrackedFile, *FileError) {
		return TrackedFile{}, &FileError{Path: rel, Stage: stage, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(StageHashing, err)
	}

	d, size, err := p.hasher.DigestFile(path)
	if err != nil {
		return fail(StageHashing, fmt.Errorf("%w: %w", ErrIO, err))
	}

	stored, err := p.storeFile(ctx, path, d)
	if err != nil {
		return fail(StageStoring, err)
	}

	m := manifest.Manifest{
		Algorithm: string(d.Algorithm()),
		Hash:      d.Encoded(),
		Path:      rel,
		SizeBytes: size,
	}
	if err := manifest.Write(path, m); err != nil {
		return fail(StageManifest, err)
	}

	if _, err := p.ignore.Record(rel); err != nil {
		return fail(StageIgnore, fmt.Errorf("%w: %w", ErrIO, err))
	}

	fmt.Fprintf(p.log, "[add] %s %s\n", rel, shortDigest(d))

	return TrackedFile{Path: rel, Digest: d, SizeBytes: size, Stored: stored}, nil
}

func (p *Project) storeFile(ctx context.Context, path string, d digest.Digest) (bool, error) {
	if ok, err := p.store.Has(ctx, d); err == nil && ok {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return p.store.Put(ctx, d, f)
}

// resolve makes path absolute, interpreting relative paths against the root.
func (p *Project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.root, path)
}

// logical returns the slash-separated path of target relative to the root.
func (p *Project) logical(target string) (string, error) {
	rel, err := filepath.Rel(p.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideProject, target)
	}
	return filepath.ToSlash(rel), nil
}

// display is logical without the error, for paths already known to be
// under the root.
func (p *Project) display(path string) string {
	if rel, err := p.logical(path); err == nil {
		return rel
	}
	return path
}

// managedFile reports whether path was written by udv itself: a sidecar or
// a temp file left by an interrupted write.
func managedFile(path string) bool {
	return manifest.Owned(path) || strings.HasPrefix(filepath.Base(path), ignore.TempPrefix)
}

func inControlDir(rel string) bool {
	return slices.Contains(strings.Split(rel, "/"), ControlDir)
}

func shortDigest(d digest.Digest) string {
	enc := d.Encoded()
	if len(enc) > 12 {
		enc = enc[:12]
	}
	return string(d.Algorithm()) + ":" + enc
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}
