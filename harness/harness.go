package harness

import (
	"os"
	"testing"
	"time"

	"github.com/renato0307/toolprobe/internal/adapters/process"
	"github.com/renato0307/toolprobe/internal/checks"
	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports"
	"github.com/renato0307/toolprobe/internal/services"
)

// DefaultRoot is where fixture directories live unless WithRoot says otherwise
const DefaultRoot = "testdata"

type (
	// Case is one row of the test table
	Case = domain.Case
	// Check inspects the result and working directory of a successful run
	Check = domain.Check
	// RunResult is what one tool invocation produced
	RunResult = domain.RunResult
	// Outcome is the report of one executed case
	Outcome = domain.Outcome
)

// Option configures a Harness
type Option func(*Harness)

// WithTool sets the path of the tool under test
func WithTool(tool string) Option {
	return func(h *Harness) { h.opts.Tool = tool }
}

// WithRoot sets the directory holding one fixture directory per case
func WithRoot(root string) Option {
	return func(h *Harness) { h.opts.Root = root }
}

// WithCleanArgs replaces the default "clean" arguments of the cleanup invocation
func WithCleanArgs(args ...string) Option {
	return func(h *Harness) { h.opts.CleanArgs = args }
}

// WithTimeout bounds every primary invocation
func WithTimeout(d time.Duration) Option {
	return func(h *Harness) { h.opts.Timeout = d }
}

// WithCleanupTimeout bounds every cleanup invocation
func WithCleanupTimeout(d time.Duration) Option {
	return func(h *Harness) { h.opts.CleanupTimeout = d }
}

// WithEnv adds variables to the environment of every invocation
func WithEnv(env map[string]string) Option {
	return func(h *Harness) { h.opts.Env = env }
}

// WithParallel runs up to n cases at once using t.Parallel. n <= 1 keeps
// cases sequential.
func WithParallel(n int) Option {
	return func(h *Harness) { h.parallel = n }
}

// WithRunner replaces the process runner, mostly for tests of the harness itself
func WithRunner(runner ports.CommandRunner) Option {
	return func(h *Harness) { h.runner = runner }
}

// Harness registers cases as subtests of a *testing.T
type Harness struct {
	invoker  *services.ToolInvoker
	opts     services.RegistryOptions
	parallel int
	runner   ports.CommandRunner
}

// New creates a Harness. Without WithTool the tool comes from TOOLPROBE_TOOL.
func New(opts ...Option) *Harness {
	h := &Harness{
		invoker: services.NewToolInvoker(),
		opts: services.RegistryOptions{
			Root: DefaultRoot,
			Tool: os.Getenv("TOOLPROBE_TOOL"),
		},
		runner: process.NewOSRunner(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run registers one subtest per case, named after the case identifier.
// Invalid or colliding cases abort t before any command runs.
func (h *Harness) Run(t *testing.T, cases []Case) {
	t.Helper()

	registry, err := services.NewRegistry(cases, h.runner, h.registryOptions())
	if err != nil {
		t.Fatalf("cannot register cases: %v", err)
		return
	}

	var slots chan struct{}
	if h.parallel > 1 {
		slots = make(chan struct{}, h.parallel)
	}

	for u := range registry.Units() {
		t.Run(u.Name, func(t *testing.T) {
			if slots != nil {
				t.Parallel()
				slots <- struct{}{}
				defer func() { <-slots }()
			}
			report(t, u.Execute(t.Context()))
		})
	}
}

// ToolSucceeds returns a Check that runs the tool once more with args in the
// case directory and fails unless it exits zero. The extra invocation uses
// the case's environment and timeout and stops when the subtest ends.
func (h *Harness) ToolSucceeds(args ...string) Check {
	return checks.ToolSucceeds(h.invoker.Invoke, args...)
}

func (h *Harness) registryOptions() services.RegistryOptions {
	opts := h.opts
	opts.Invoker = h.invoker
	return opts
}

// Run is shorthand for New(opts...).Run(t, cases)
func Run(t *testing.T, cases []Case, opts ...Option) {
	t.Helper()
	New(opts...).Run(t, cases)
}

// report maps an outcome onto the test: output and cleanup problems are
// logged, failures are errors.
func report(t testing.TB, out Outcome) {
	t.Helper()

	if out.Primary != nil && out.Primary.Output != "" {
		t.Logf("%s output:\n%s", out.Primary.CommandLine(), out.Primary.Output)
	}
	if out.CleanupErr != nil && out.Cause != out.CleanupErr {
		t.Logf("cleanup also failed: %v", out.CleanupErr)
		if out.Cleanup != nil && out.Cleanup.Output != "" {
			t.Logf("cleanup output:\n%s", out.Cleanup.Output)
		}
	}
	if !out.Passed {
		t.Errorf("%s failed (%s) in %s: %v", out.UnitName, out.Kind, out.Dir, out.Cause)
	}
}
