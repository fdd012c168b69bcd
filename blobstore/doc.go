// Package blobstore stores serialized container frames under flat names.
//
// Store is the interface the engine and CLI write archives through.
// Implementations must be safe for concurrent use.
//
// Built-in implementations:
//
//   - LocalStore: local filesystem, mmap-backed zero-copy reads and
//     atomic tmp+rename writes
//   - MemoryStore: in-memory store for tests
//   - CachingStore: wraps another Store with a block-level read cache
//
// Blobs that also implement Mappable expose their bytes without copying;
// the slice is only valid until the blob is closed.
package blobstore
