package ecc

import (
	"errors"
	"fmt"
)

// ErrNilState indicates a nil state vector where a value is required.
var ErrNilState = errors.New("nil state")

// ErrInvalidParameter indicates an encoder parameter outside its documented
// range.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}

// ErrMalformedEncoding indicates encoded redundancy data that cannot be
// decoded at all, as opposed to data that is merely corrupted.
type ErrMalformedEncoding struct {
	Reason string
}

func (e *ErrMalformedEncoding) Error() string {
	return fmt.Sprintf("malformed encoding: %s", e.Reason)
}
