package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// Unit is one runnable, independently reported test built from a Case
type Unit struct {
	Args []string
	Case domain.Case
	Dir  string
	Env  map[string]string
	Name string

	evaluator *CheckEvaluator
	guard     *CleanupGuarantor
	mu        sync.Mutex
	running   context.Context
	runner    ports.CommandRunner
	timeout   time.Duration
	tool      string
}

// Execute drives the unit through
// pending → running → check_running → cleaning_up → reported.
// cleaning_up is reached from every earlier state, including panics raised
// by the runner, and the returned Outcome is always in the reported state.
func (u *Unit) Execute(ctx context.Context) (out domain.Outcome) {
	out = domain.Outcome{
		CaseID:    u.Case.ID,
		Dir:       u.Dir,
		StartedAt: time.Now(),
		UnitName:  u.Name,
	}
	out.Enter(domain.StatePending)

	logging.Logger.Info("Unit started", "unit", u.Name, "dir", u.Dir, "args", u.Args)

	defer func() {
		if r := recover(); r != nil {
			kind := domain.KindPrimaryCommand
			if out.State() == domain.StateCheckRunning {
				kind = domain.KindCheck
			}
			logging.Logger.Error("Unit panicked", "unit", u.Name, "state", out.State(), "panic", r)
			out.Fail(kind, fmt.Errorf("panic while %s: %v", out.State(), r))
		}

		out.Enter(domain.StateCleaningUp)
		u.guard.Release(ctx, u.Dir, u.Env, &out)

		out.Passed = out.Kind == domain.KindNone
		out.Duration = time.Since(out.StartedAt)
		out.Enter(domain.StateReported)

		logging.Logger.Info("Unit finished",
			"unit", u.Name,
			"passed", out.Passed,
			"kind", out.Kind,
			"duration", out.Duration,
			"cleanup_error", out.CleanupErr)
	}()

	out.Enter(domain.StateRunning)
	result, err := u.runner.Run(ctx, domain.Invocation{
		Args:    u.Args,
		Dir:     u.Dir,
		Env:     u.Env,
		Timeout: u.timeout,
		Tool:    u.tool,
		TTY:     u.Case.TTY,
	})
	out.Primary = result

	if err != nil {
		cmdErr := &domain.CommandError{Err: err, Result: result}
		out.Fail(domain.KindFor(cmdErr), cmdErr)
		return out
	}
	if !result.Success {
		cmdErr := &domain.CommandError{Result: result}
		out.Fail(domain.KindFor(cmdErr), cmdErr)
		return out
	}

	out.Enter(domain.StateCheckRunning)
	out.CheckRan = u.Case.Check != nil
	u.setRunning(ctx)
	err = u.evaluator.Evaluate(u.Case.Check, result, u.Dir)
	u.setRunning(nil)
	if err != nil {
		out.Fail(domain.KindCheck, err)
	}
	return out
}

// Invoke runs an extra tool invocation in the unit's directory with the
// unit's environment and timeout, for checks that need to call the tool
// themselves. While the unit's check is running, cancelling the context
// given to Execute also cancels the extra invocation.
func (u *Unit) Invoke(ctx context.Context, args ...string) (*domain.RunResult, error) {
	if running := u.runningContext(); running != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(running, cancel)
		defer stop()
	}
	return u.runner.Run(ctx, domain.Invocation{
		Args:    args,
		Dir:     u.Dir,
		Env:     u.Env,
		Timeout: u.timeout,
		Tool:    u.tool,
	})
}

func (u *Unit) setRunning(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.running = ctx
}

func (u *Unit) runningContext() context.Context {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.running
}
