package interference

import "fmt"

// ErrInvalidParameter indicates an optimizer parameter outside its documented
// range.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}

// ErrProfileNotFound indicates a threshold profile name with no registered
// profile.
type ErrProfileNotFound struct {
	Name string
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.Name)
}
