package command

import "fmt"

// UserError is a failure whose message is safe to show to the invoker as is.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// Userf builds a UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}
