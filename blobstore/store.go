package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when an archive does not exist.
//
// Implementations should return an error satisfying
// errors.Is(err, ErrNotFound). The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for archive names that are empty or carry
// path elements.
var ErrInvalidName = errors.New("invalid archive name")

// Store reads and writes immutable archive frames by name.
type Store interface {
	// Open opens an archive for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes an archive atomically, replacing any existing one.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes an archive. Deleting a missing archive is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of stored archives with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored archive.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the archive length in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs whose contents are already
// in memory. Bytes returns the backing slice without copying; it is valid
// until the Blob is closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ValidName reports whether name is usable as an archive name: non-empty
// and free of path elements.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && name == filepath.Base(name)
}

// ReadAll reads a whole archive into a fresh slice the caller owns.
func ReadAll(ctx context.Context, store Store, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	if m, ok := blob.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}

		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	return io.ReadAll(io.NewSectionReader(blob, 0, blob.Size()))
}
