package domain

import (
	"strings"
	"time"
)

// RunResult is what one tool invocation produced. It is never mutated after
// the runner returns it.
type RunResult struct {
	Args     []string
	Dir      string
	Duration time.Duration
	ExitCode int
	Output   string
	Success  bool
	TimedOut bool
	Tool     string
}

// CommandLine renders the invocation for diagnostics.
func (r *RunResult) CommandLine() string {
	if r == nil {
		return ""
	}
	parts := append([]string{r.Tool}, r.Args...)
	return strings.TrimSpace(strings.Join(parts, " "))
}
