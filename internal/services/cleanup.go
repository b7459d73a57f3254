package services

import (
	"context"
	"fmt"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// DefaultCleanArgs is the fixed clean invocation issued after every unit
var DefaultCleanArgs = []string{"clean"}

// CleanupGuarantor issues the clean invocation that ends every unit
type CleanupGuarantor struct {
	args    []string
	runner  ports.CommandRunner
	timeout time.Duration
	tool    string
}

// NewCleanupGuarantor creates a new CleanupGuarantor.
// Empty args fall back to DefaultCleanArgs.
func NewCleanupGuarantor(runner ports.CommandRunner, tool string, args []string, timeout time.Duration) *CleanupGuarantor {
	if len(args) == 0 {
		args = DefaultCleanArgs
	}
	return &CleanupGuarantor{
		args:    append([]string(nil), args...),
		runner:  runner,
		timeout: timeout,
		tool:    tool,
	}
}

// Release runs the clean invocation in dir and records the result on out.
// It runs even when ctx is already cancelled so an interrupted suite still
// leaves its fixtures clean. A cleanup failure never replaces an earlier
// failure; it is attached as a secondary diagnostic instead. A panic raised
// by the runner is recorded as a cleanup failure and never escapes.
func (g *CleanupGuarantor) Release(ctx context.Context, dir string, env map[string]string, out *domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Error("Cleanup panicked", "dir", dir, "panic", r)
			g.record(dir, out, &domain.CleanupError{Err: fmt.Errorf("panic: %w", panicError(r))})
		}
	}()

	result, err := g.runner.Run(context.WithoutCancel(ctx), domain.Invocation{
		Args:    g.args,
		Dir:     dir,
		Env:     env,
		Timeout: g.timeout,
		Tool:    g.tool,
	})
	out.Cleanup = result

	var cleanupErr *domain.CleanupError
	switch {
	case err != nil:
		cleanupErr = &domain.CleanupError{Err: err, Result: result}
	case result == nil || !result.Success:
		cleanupErr = &domain.CleanupError{Result: result}
	default:
		logging.Logger.Debug("Cleanup succeeded", "dir", dir)
		return
	}

	g.record(dir, out, cleanupErr)
}

func (g *CleanupGuarantor) record(dir string, out *domain.Outcome, err *domain.CleanupError) {
	logging.Logger.Warn("Cleanup failed", "dir", dir, "error", err)
	out.CleanupErr = err
	out.Fail(domain.KindCleanup, err)
}
