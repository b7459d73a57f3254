package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Check inspects what the primary command left behind. Returning an error
// (or panicking) fails the unit; returning nil passes it.
type Check func(result *RunResult, dir string) error

// Case is one row of the declarative test table.
type Case struct {
	// Args is used verbatim when set; otherwise Command is split shell-style.
	Args    []string
	Check   Check
	Command string
	Env     map[string]string
	ID      string
	Timeout time.Duration
	TTY     bool
}

// Validate checks the identifier can safely name a directory under the test root.
func (c Case) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidCase)
	}
	if c.ID == "." || c.ID == ".." || strings.ContainsAny(c.ID, `/\`) {
		return fmt.Errorf("%w: identifier %q is not a single directory name", ErrInvalidCase, c.ID)
	}
	if len(c.Args) == 0 && strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("%w: %s has no command", ErrInvalidCase, c.ID)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: %s has a negative timeout", ErrInvalidCase, c.ID)
	}
	return nil
}

// Dir returns the working directory of the case under root.
func (c Case) Dir(root string) string {
	return filepath.Join(root, c.ID)
}

// Invocation describes a single process launch.
type Invocation struct {
	Args    []string
	Dir     string
	Env     map[string]string
	Timeout time.Duration
	Tool    string
	TTY     bool
}
