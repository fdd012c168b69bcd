package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := frameBytes(1024)
	require.NoError(t, s.Put(ctx, "run.qf", data))

	got, err := ReadAll(ctx, s, "run.qf")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// ReadAll hands out an owned copy.
	got[0] ^= 0xff
	again, err := ReadAll(ctx, s, "run.qf")
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestMemoryStorePutCopiesInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("mutable")
	require.NoError(t, s.Put(ctx, "run.qf", data))

	data[0] = 'X'

	got, err := ReadAll(ctx, s, "run.qf")
	require.NoError(t, err)
	assert.Equal(t, []byte("mutable"), got)
}

func TestMemoryStoreOpenIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "run.qf", []byte("old")))

	blob, err := s.Open(ctx, "run.qf")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, s.Put(ctx, "run.qf", []byte("new bytes")))
	require.NoError(t, s.Delete(ctx, "run.qf"))

	buf := make([]byte, 3)
	_, err = blob.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "old", string(buf))
	assert.Equal(t, int64(3), blob.Size())
}

func TestMemoryStoreMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Open(context.Background(), "absent.qf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "b.qf", nil))
	require.NoError(t, s.Put(ctx, "a.qf", nil))
	require.NoError(t, s.Put(ctx, "x.txt", nil))

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.qf", "b.qf", "x.txt"}, names)

	names, err = s.List(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.qf"}, names)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("run.qf"))
	assert.True(t, ValidName("run-2026.qf"))

	for _, name := range []string{"", ".", "..", "a/b", "/abs", "../up"} {
		assert.False(t, ValidName(name), "%q", name)
	}
}
