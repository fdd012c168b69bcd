package probability

import (
	"errors"
	"fmt"
)

// ErrEmptyDistribution is returned when a significance test receives an
// empty sample.
var ErrEmptyDistribution = errors.New("empty distribution")

// ErrInvalidParameter indicates an analyzer parameter outside its documented
// range.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}
