package cmd

import "fmt"

// Exit codes returned by the binary
const (
	ExitUnitsFailed  = 1
	ExitRegistration = 2
)

// ExitError carries the process exit code for main to use
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitWith(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}
