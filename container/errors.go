package container

import (
	"errors"
	"fmt"
)

// ErrNoStates indicates a container created without any state vectors.
var ErrNoStates = errors.New("no states")

// ErrInvalidParameter indicates a constructor argument outside its
// documented range.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}

// ErrUnsupportedVersion indicates a serialized container written by an
// incompatible format version.
type ErrUnsupportedVersion struct {
	Have int
	Want int
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported container version: %d (expected %d)", e.Have, e.Want)
}

// ErrChecksumMismatch indicates frame bytes whose checksum does not match
// the stored value.
type ErrChecksumMismatch struct {
	Expected uint32
	Actual   uint32
}

func (e *ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// ErrDeserialization wraps any malformed-input failure during Deserialize.
type ErrDeserialization struct {
	Reason string
	cause  error
}

func (e *ErrDeserialization) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("deserialize: %s: %v", e.Reason, e.cause)
	}

	return fmt.Sprintf("deserialize: %s", e.Reason)
}

func (e *ErrDeserialization) Unwrap() error {
	return e.cause
}
