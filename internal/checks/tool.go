package checks

import (
	"context"
	"fmt"

	"github.com/renato0307/toolprobe/internal/domain"
)

// Invoker runs the tool under test in dir with args.
type Invoker func(ctx context.Context, dir string, args ...string) (*domain.RunResult, error)

// ToolSucceeds issues one extra tool invocation in the case directory and
// fails unless it exits zero. Useful when the artifact to inspect only
// exists after a second command, or when a command must work on the output
// of the first one.
func ToolSucceeds(invoke Invoker, args ...string) domain.Check {
	return func(_ *domain.RunResult, dir string) error {
		if invoke == nil {
			return fmt.Errorf("no tool available to run %v", args)
		}
		result, err := invoke(context.Background(), dir, args...)
		if err != nil {
			return fmt.Errorf("extra invocation %v: %w", args, err)
		}
		if !result.Success {
			if result.TimedOut {
				return fmt.Errorf("extra invocation %s timed out after %v", result.CommandLine(), result.Duration)
			}
			return fmt.Errorf("extra invocation %s exited with code %d", result.CommandLine(), result.ExitCode)
		}
		return nil
	}
}
