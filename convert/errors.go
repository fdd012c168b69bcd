package convert

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a conversion is attempted on empty data or
// an empty state list.
var ErrEmptyInput = errors.New("empty input")

// ErrInvalidParameter indicates a converter parameter outside its documented
// range.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}
