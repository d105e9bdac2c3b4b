package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T) *File {
	t.Helper()
	return New(filepath.Join(t.TempDir(), FileName))
}

func readFile(t *testing.T, f *File) string {
	t.Helper()
	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	return string(data)
}

func TestRecordMissingFile(t *testing.T) {
	t.Parallel()

	f := newFile(t)
	changed, err := f.Record("data/model.bin")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "\ndata/model.bin", readFile(t, f))
}

func TestRecordPreservesExisting(t *testing.T) {
	t.Parallel()

	f := newFile(t)
	require.NoError(t, os.WriteFile(f.Path(), []byte("*.log\n/build"), 0o600))

	_, err := f.Record("a.bin")
	require.NoError(t, err)
	_, err = f.Record("b.bin")
	require.NoError(t, err)

	assert.Equal(t, "*.log\n/build\na.bin\nb.bin", readFile(t, f))

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRecordIdempotent(t *testing.T) {
	t.Parallel()

	f := newFile(t)
	for range 3 {
		_, err := f.Record("test_file.txt")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, strings.Count(readFile(t, f), "test_file.txt"))
}

func TestRecordSubstringCountsAsPresent(t *testing.T) {
	t.Parallel()

	f := newFile(t)
	_, err := f.Record("data/archive.bin")
	require.NoError(t, err)

	changed, err := f.Record("archive.bin")
	require.NoError(t, err)
	assert.False(t, changed)

	ok, err := f.Contains("archive.bin")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "\ndata/archive.bin", readFile(t, f))
}

func TestRecordEmptyEntry(t *testing.T) {
	t.Parallel()

	f := newFile(t)
	changed, err := f.Record("")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestRecordConcurrent(t *testing.T) {
	t.Parallel()

	f := newFile(t)

	var wg conc.WaitGroup
	for i := range 32 {
		wg.Go(func() {
			_, err := f.Record(fmt.Sprintf("file-%03d.bin", i))
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	content := readFile(t, f)
	for i := range 32 {
		assert.Equal(t, 1, strings.Count(content, fmt.Sprintf("file-%03d.bin", i)))
	}
}

func TestRecordUnwritableDir(t *testing.T) {
	t.Parallel()

	f := New(filepath.Join(t.TempDir(), "missing", FileName))
	_, err := f.Record("a.bin")
	require.ErrorIs(t, err, ErrWriteFailed)
}
