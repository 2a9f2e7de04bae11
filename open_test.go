package jsonlines

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonlines/value"
)

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestOpenWriteThenRead(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data.jsonl")

	f, err := Open(name, "w")
	require.NoError(t, err)
	w, ok := f.(*Writer)
	require.True(t, ok, "mode w should give a *Writer")
	_, err = w.Write(value.NewObject(value.Member{Key: "a", Value: value.NewInt(1)}))
	require.NoError(t, err)
	assert.Empty(t, readFile(t, name), "output is buffered until Close")
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, "{\"a\": 1}\n", readFile(t, name))

	f, err = Open(name, "r")
	require.NoError(t, err)
	r, ok := f.(*Reader)
	require.True(t, ok, "mode r should give a *Reader")
	v, err := r.ReadObject()
	require.NoError(t, err)
	a, _ := v.Get("a")
	assert.Equal(t, "1", a.Literal())
	require.NoError(t, r.Close())
	_, err = r.Read(ReadOptions{})
	assert.Equal(t, ErrReaderClosed, err)
}

func TestOpenModes(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "data.jsonl")
	require.NoError(t, os.WriteFile(name, []byte("1\n"), 0o644))

	w, err := OpenWriter(name, "a", WriterOptions{})
	require.NoError(t, err)
	_, err = w.Write(value.NewInt(2))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "1\n2\n", readFile(t, name))

	w, err = OpenWriter(name, "w", WriterOptions{})
	require.NoError(t, err)
	_, err = w.Write(value.NewInt(3))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "3\n", readFile(t, name))

	_, err = OpenWriter(name, "x", WriterOptions{})
	assert.True(t, errors.Is(err, fs.ErrExist), "got %v", err)

	fresh := filepath.Join(dir, "fresh.jsonl")
	w, err = OpenWriter(fresh, "x", WriterOptions{Flush: true})
	require.NoError(t, err)
	_, err = w.Write(value.NewString("x"))
	require.NoError(t, err)
	assert.Equal(t, "\"x\"\n", readFile(t, fresh), "Flush writes through to the file")
	require.NoError(t, w.Close())
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.jsonl"), "r")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	for _, mode := range []string{"", "rw", "r+", "b"} {
		_, err := Open(filepath.Join(dir, "any.jsonl"), mode)
		var merr *InvalidModeError
		require.True(t, errors.As(err, &merr), "mode %q: got %v", mode, err)
		assert.Equal(t, mode, merr.Mode)
	}

	_, err = OpenWriter(filepath.Join(dir, "any.jsonl"), "r", WriterOptions{})
	assert.IsType(t, &InvalidModeError{}, err)
	_, err = os.Stat(filepath.Join(dir, "any.jsonl"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "no file is created for an invalid mode")
}
