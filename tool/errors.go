package tool

import "fmt"

// ErrToolAlreadyRegistered is returned when registering a handler under
// a name that is already taken.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}
