package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/resource"
)

func frameBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	s, err := NewLocalStore(filepath.Join(t.TempDir(), "archives"))
	require.NoError(t, err)

	data := frameBytes(4096)
	require.NoError(t, s.Put(ctx, "run.qf", data))

	blob, err := s.Open(ctx, "run.qf")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	got, err := blob.(Mappable).Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	buf := make([]byte, 16)
	n, err := blob.ReadAt(buf, 100)
	require.NoError(t, err)
	assert.Equal(t, data[100:116], buf[:n])
}

func TestLocalStoreOverwrite(t *testing.T) {
	ctx := context.Background()

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "run.qf", []byte("first")))
	require.NoError(t, s.Put(ctx, "run.qf", []byte("second")))

	got, err := ReadAll(ctx, s, "run.qf")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestLocalStoreOpenMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "absent.qf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreInvalidNames(t *testing.T) {
	ctx := context.Background()

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "a/b", "../escape"} {
		_, err := s.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, "open %q", name)

		assert.ErrorIs(t, s.Put(ctx, name, []byte("x")), ErrInvalidName, "put %q", name)
		assert.ErrorIs(t, s.Delete(ctx, name), ErrInvalidName, "delete %q", name)
	}
}

func TestLocalStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "run.qf", []byte("data")))
	require.NoError(t, s.Delete(ctx, "run.qf"))
	require.NoError(t, s.Delete(ctx, "run.qf"))

	_, err = s.Open(ctx, "run.qf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	s, err := NewLocalStore(root)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "b.qf", []byte("b")))
	require.NoError(t, s.Put(ctx, "a.qf", []byte("a")))
	require.NoError(t, s.Put(ctx, "notes.txt", []byte("n")))

	// A leftover temp file from a crashed write must not be listed.
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.qf.tmp-123"), []byte("partial"), 0o600))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.qf", "b.qf", "notes.txt"}, names)

	names, err = s.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.qf"}, names)
}

func TestLocalStoreThrottledPut(t *testing.T) {
	ctx := context.Background()

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 10 << 20})

	s, err := NewLocalStore(t.TempDir(), WithResourceController(rc))
	require.NoError(t, err)

	data := frameBytes(1 << 20)
	require.NoError(t, s.Put(ctx, "big.qf", data))

	got, err := ReadAll(ctx, s, "big.qf")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
