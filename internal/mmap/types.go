package mmap

import "errors"

// AccessPattern hints to the kernel how the mapped data will be read.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects front-to-back reads.
	AccessSequential
	// AccessRandom expects scattered reads.
	AccessRandom
	// AccessWillNeed expects reads in the near future.
	AccessWillNeed
)

var (
	// ErrClosed is returned when accessing a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files whose size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for reads at a negative offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
