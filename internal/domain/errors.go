package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCheckFailed          = errors.New("check failed")
	ErrCleanupFailed        = errors.New("cleanup failed")
	ErrCommandTimeout       = errors.New("command timed out")
	ErrInvalidCase          = errors.New("invalid test case")
	ErrLaunchFailed         = errors.New("failed to launch command")
	ErrPrimaryCommandFailed = errors.New("primary command failed")
	ErrRegistrationConflict = errors.New("registration conflict")
	ErrUnitNotFound         = errors.New("unit not found")
)

// CommandError reports a primary invocation that exited nonzero, timed out
// or could not be launched.
type CommandError struct {
	Err    error
	Result *RunResult
}

func (e *CommandError) Error() string {
	if e.Result == nil {
		return fmt.Sprintf("%v: %v", ErrPrimaryCommandFailed, e.Err)
	}
	if e.Result.TimedOut {
		return fmt.Sprintf("%v: %s after %v", ErrCommandTimeout, e.Result.CommandLine(), e.Result.Duration)
	}
	return fmt.Sprintf("%v: %s exited with code %d", ErrPrimaryCommandFailed, e.Result.CommandLine(), e.Result.ExitCode)
}

func (e *CommandError) Unwrap() []error {
	errs := []error{ErrPrimaryCommandFailed}
	if e.Result != nil && e.Result.TimedOut {
		errs = append(errs, ErrCommandTimeout)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// CheckError wraps whatever the post-run check returned or panicked with.
type CheckError struct {
	Err      error
	Panicked bool
}

func (e *CheckError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("%v: panic: %v", ErrCheckFailed, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrCheckFailed, e.Err)
}

func (e *CheckError) Unwrap() []error {
	return []error{ErrCheckFailed, e.Err}
}

// CleanupError reports a clean invocation that did not exit successfully.
type CleanupError struct {
	Err    error
	Result *RunResult
}

func (e *CleanupError) Error() string {
	if e.Result == nil {
		return fmt.Sprintf("%v: %v", ErrCleanupFailed, e.Err)
	}
	if e.Result.TimedOut {
		return fmt.Sprintf("%v: %s timed out after %v", ErrCleanupFailed, e.Result.CommandLine(), e.Result.Duration)
	}
	return fmt.Sprintf("%v: %s exited with code %d", ErrCleanupFailed, e.Result.CommandLine(), e.Result.ExitCode)
}

func (e *CleanupError) Unwrap() []error {
	errs := []error{ErrCleanupFailed}
	if e.Result != nil && e.Result.TimedOut {
		errs = append(errs, ErrCommandTimeout)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ConflictError lists every unit name claimed by more than one case identifier.
type ConflictError struct {
	Conflicts map[string][]string
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Conflicts))
	for name := range e.Conflicts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s <- [%s]", name, strings.Join(e.Conflicts[name], ", ")))
	}
	return fmt.Sprintf("%v: identifiers normalize to the same unit name: %s",
		ErrRegistrationConflict, strings.Join(parts, "; "))
}

func (e *ConflictError) Unwrap() error {
	return ErrRegistrationConflict
}
