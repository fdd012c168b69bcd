// Package mmap provides read-only memory-mapped file access.
//
// Archive frames are read in full during deserialization, so mapping the
// file avoids one copy through a read buffer. Unix platforms use mmap(2)
// with madvise(2) hints; Windows uses CreateFileMapping/MapViewOfFile and
// treats hints as no-ops.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch Bytes() after Close returns.
package mmap
