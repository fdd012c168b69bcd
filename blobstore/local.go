package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qfold/qfold/internal/mmap"
	"github.com/qfold/qfold/resource"
)

// putChunkSize is the largest single write issued while storing an archive.
// IO limits below this many bytes per second cannot admit a chunk and fail
// the write.
const putChunkSize = 256 << 10

// LocalStore implements Store on the local filesystem. Reads are served
// from memory mappings; writes go to a temp file that is synced and
// renamed into place.
type LocalStore struct {
	root string
	rc   *resource.Controller
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithResourceController paces archive writes through the controller's IO
// budget.
func WithResourceController(rc *resource.Controller) LocalOption {
	return func(s *LocalStore) {
		s.rc = rc
	}
}

// NewLocalStore creates a store rooted at the given directory, creating it
// if needed.
func NewLocalStore(root string, optFns ...LocalOption) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive root: %w", err)
	}

	s := &LocalStore{root: root}
	for _, fn := range optFns {
		fn(s)
	}

	return s, nil
}

// Open maps the named archive into memory.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	m, err := mmap.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}

	// Frames are consumed front to back.
	_ = m.Advise(mmap.AccessSequential)

	return &localBlob{m: m}, nil
}

// Put writes the archive to a temp file, syncs it and renames it into
// place, so readers never observe a partial frame.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	tmp, err := os.CreateTemp(s.root, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpName := tmp.Name()

	w := io.Writer(tmp)
	if s.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, tmp, s.rc)
	}

	err = writeChunked(w, data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store archive %s: %w", name, err)
	}

	return os.Rename(tmpName, filepath.Join(s.root, name))
}

func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := putChunkSize
		if n > len(data) {
			n = len(data)
		}
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Delete removes the named archive. Missing archives are ignored.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns stored archive names with the given prefix, sorted. Temp
// files from in-flight writes are skipped.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.Contains(e.Name(), ".tmp-") {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}

	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Size())
}

// Bytes exposes the mapping without copying.
func (b *localBlob) Bytes() ([]byte, error) {
	data := b.m.Bytes()
	if data == nil && b.m.Size() > 0 {
		return nil, mmap.ErrClosed
	}
	return data, nil
}
