package entangle

import "fmt"

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
