package udv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aweris/udv/internal/hasher"
	"github.com/aweris/udv/internal/manifest"
	"github.com/aweris/udv/internal/store"
	"github.com/aweris/udv/internal/walker"
)

var (
	ErrNotFound            = errors.New("udv: path not found")
	ErrIO                  = errors.New("udv: i/o error")
	ErrOutsideProject      = errors.New("udv: path is outside the project")
	ErrControlDir          = errors.New("udv: path is inside the control directory")
	ErrManagedFile         = errors.New("udv: path is a file managed by udv")
	ErrCorrupt             = errors.New("udv: cached content does not match manifest")
	ErrNotGitRepo          = errors.New("udv: not a git repository")
	ErrAlreadyInitialized  = errors.New("udv: project already initialized")
	ErrNotInitialized      = errors.New("udv: project not initialized")
	ErrUnsupportedFileType = walker.ErrUnsupportedFileType
	ErrStoreWriteFailed    = store.ErrWriteFailed
	ErrManifestWriteFailed = manifest.ErrWriteFailed
	ErrUnsupportedHash     = hasher.ErrUnsupportedAlgorithm
)

// Stage names the step of an add during which a file failed.
type Stage string

const (
	StageExpanding Stage = "expand"
	StageHashing   Stage = "hash"
	StageStoring   Stage = "store"
	StageManifest  Stage = "manifest"
	StageIgnore    Stage = "ignore"
)

// FileError attributes a failure to one file and stage.
type FileError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// AddError reports every file that failed during a directory add. Files not
// listed were tracked successfully.
type AddError struct {
	Root     string
	Total    int
	Failures []*FileError
}

func (e *AddError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "add %s: %d of %d files failed", e.Root, len(e.Failures), e.Total)
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *AddError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
