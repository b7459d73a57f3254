package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the tool itself exited or was killed.
const waitDelay = 2 * time.Second

// OSRunner implements CommandRunner with os/exec
type OSRunner struct{}

// Compile-time interface verification
var _ ports.CommandRunner = (*OSRunner)(nil)

// NewOSRunner creates a new OS command runner
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run launches inv.Tool with inv.Args in inv.Dir and waits for it.
// The caller's working directory is never changed.
func (r *OSRunner) Run(ctx context.Context, inv domain.Invocation) (*domain.RunResult, error) {
	if inv.Tool == "" {
		return nil, fmt.Errorf("%w: no tool configured", domain.ErrLaunchFailed)
	}

	runCtx := ctx
	cancel := func() {}
	if inv.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, inv.Tool, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = Environ(inv.Env)
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd, inv.TTY)

	logging.Logger.Debug("Running command",
		"tool", inv.Tool,
		"args", inv.Args,
		"dir", inv.Dir,
		"timeout", inv.Timeout,
		"tty", inv.TTY)

	start := time.Now()
	var (
		output  string
		waitErr error
		err     error
	)
	if inv.TTY {
		output, waitErr, err = runWithPTY(cmd)
	} else {
		output, waitErr, err = runWithPipes(cmd)
	}
	if err != nil {
		logging.Logger.Warn("Command failed to launch", "tool", inv.Tool, "dir", inv.Dir, "error", err)
		return nil, fmt.Errorf("%w: %s in %s: %v", domain.ErrLaunchFailed, inv.Tool, inv.Dir, err)
	}

	result := &domain.RunResult{
		Args:     append([]string(nil), inv.Args...),
		Dir:      inv.Dir,
		Duration: time.Since(start),
		Output:   output,
		Tool:     inv.Tool,
	}

	switch {
	case ctx.Err() != nil:
		// The caller gave up; this is neither a timeout nor an exit status.
		result.ExitCode = -1
		return result, fmt.Errorf("command interrupted: %w", ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.TimedOut = true
		logging.Logger.Warn("Command timed out", "tool", inv.Tool, "dir", inv.Dir, "timeout", inv.Timeout)
	case waitErr != nil:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			logging.Logger.Warn("Command wait error", "tool", inv.Tool, "error", waitErr)
		}
	}
	result.Success = result.ExitCode == 0 && !result.TimedOut

	logging.Logger.Debug("Command finished",
		"tool", inv.Tool,
		"args", inv.Args,
		"dir", inv.Dir,
		"exit_code", result.ExitCode,
		"timed_out", result.TimedOut,
		"duration", result.Duration,
		"output", output)

	return result, nil
}

// runWithPipes captures stdout and stderr interleaved in one buffer.
// err is set only when the process could not be started.
func runWithPipes(cmd *exec.Cmd) (output string, waitErr error, err error) {
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return "", nil, err
	}
	waitErr = cmd.Wait()
	return buf.String(), waitErr, nil
}

// Environ returns the current environment with extra overriding any
// variable of the same name.
func Environ(extra map[string]string) []string {
	base := os.Environ()
	if len(extra) == 0 {
		return base
	}

	env := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
