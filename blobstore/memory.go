package blobstore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Blobs opened before a Put
// or Delete keep reading the bytes they were opened with.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Open opens an archive for reading.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}

	return &memoryBlob{Reader: bytes.NewReader(data), data: data}, nil
}

// Put stores a copy of data under name.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[name] = copied
	return nil
}

// Delete removes an archive. Missing archives are ignored.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, name)
	return nil
}

// List returns stored archive names with the given prefix.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

type memoryBlob struct {
	*bytes.Reader
	data []byte
}

func (b *memoryBlob) Close() error {
	return nil
}

func (b *memoryBlob) Size() int64 {
	return int64(len(b.data))
}

// Bytes exposes the stored slice without copying.
func (b *memoryBlob) Bytes() ([]byte, error) {
	return b.data, nil
}
