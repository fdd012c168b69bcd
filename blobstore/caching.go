package blobstore

import (
	"context"
	"io"

	"github.com/qfold/qfold/internal/cache"
)

// DefaultBlockSize is the cache block size used when none is given.
const DefaultBlockSize = 64 << 10

// CachingStore wraps a Store with block-level read caching. Writes and
// deletes invalidate the cached blocks of the touched archive.
type CachingStore struct {
	inner     Store
	cache     *cache.LRU
	blockSize int64
}

// NewCachingStore wraps inner. blockSize defaults to DefaultBlockSize
// if <= 0.
func NewCachingStore(inner Store, c *cache.LRU, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

// Open opens an archive whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Put writes through and invalidates the archive's cached blocks.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.InvalidateArchive(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the archive and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.InvalidateArchive(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the wrapped store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type cachingBlob struct {
	inner     Blob
	cache     *cache.LRU
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	size := b.inner.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	want := p
	if off+int64(len(p)) > size {
		want = p[:size-off]
	}

	read := 0
	for read < len(want) {
		pos := off + int64(read)

		data, err := b.fetchBlock(pos / b.blockSize)
		if err != nil {
			return read, err
		}

		n := copy(want[read:], data[pos%b.blockSize:])
		if n == 0 {
			return read, io.EOF
		}
		read += n
	}

	if read < len(p) {
		return read, io.EOF
	}
	return read, nil
}

// fetchBlock returns one cache block, reading it from the wrapped blob on
// a miss. The final block of an archive may be short.
func (b *cachingBlob) fetchBlock(blk int64) ([]byte, error) {
	key := cache.Key{Archive: b.name, Block: uint64(blk)}

	if data, ok := b.cache.Get(key); ok {
		return data, nil
	}

	start := blk * b.blockSize
	length := b.blockSize
	if start+length > b.inner.Size() {
		length = b.inner.Size() - start
	}
	if length <= 0 {
		return nil, io.EOF
	}

	data := make([]byte, length)
	n, err := b.inner.ReadAt(data, start)
	if err != nil && err != io.EOF {
		return nil, err
	}
	data = data[:n]

	b.cache.Set(key, data)
	return data, nil
}
