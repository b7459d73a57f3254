package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports/mocks"
)

var fullTrace = []domain.UnitState{
	domain.StatePending,
	domain.StateRunning,
	domain.StateCheckRunning,
	domain.StateCleaningUp,
	domain.StateReported,
}

var primaryFailureTrace = []domain.UnitState{
	domain.StatePending,
	domain.StateRunning,
	domain.StateCleaningUp,
	domain.StateReported,
}

func TestExecute_PassesWithoutCheck(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			assert.Equal(t, "/fixtures/helloWorld", inv.Dir)
			assert.Equal(t, testTool, inv.Tool)
			assert.Equal(t, []string{"package"}, inv.Args)
			return ok(inv), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			assert.Equal(t, "/fixtures/helloWorld", inv.Dir)
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package"})
	out := u.Execute(context.Background())

	assert.True(t, out.Passed)
	assert.Equal(t, domain.KindNone, out.Kind)
	assert.NoError(t, out.Err())
	assert.False(t, out.CheckRan)
	assert.Equal(t, "Helloworld", out.UnitName)
	assert.Equal(t, "helloWorld", out.CaseID)
	assert.Equal(t, fullTrace, out.Trace)
	assert.NotNil(t, out.Primary)
	assert.NotNil(t, out.Cleanup)
}

func TestExecute_PrimaryFailureSkipsCheck(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return exited(inv, 1), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()

	checkCalled := false
	u := singleUnit(t, runner, domain.Case{
		ID:      "include_path",
		Command: "package",
		Check: func(*domain.RunResult, string) error {
			checkCalled = true
			return nil
		},
	})
	out := u.Execute(context.Background())

	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindPrimaryCommand, out.Kind)
	assert.ErrorIs(t, out.Err(), domain.ErrPrimaryCommandFailed)
	assert.Contains(t, out.Cause.Error(), "exited with code 1")
	assert.False(t, checkCalled, "check must not run after a failed primary command")
	assert.False(t, out.CheckRan)
	assert.Nil(t, out.CleanupErr)
	assert.Equal(t, primaryFailureTrace, out.Trace)
}

func TestExecute_LaunchFailureStillCleansUp(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		Return(nil, fmt.Errorf("%w: exec: not found", domain.ErrLaunchFailed)).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		Return(nil, fmt.Errorf("%w: exec: not found", domain.ErrLaunchFailed)).Once()

	u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package"})
	out := u.Execute(context.Background())

	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindPrimaryCommand, out.Kind)
	assert.ErrorIs(t, out.Cause, domain.ErrLaunchFailed)
	require.Error(t, out.CleanupErr)
	assert.ErrorIs(t, out.CleanupErr, domain.ErrCleanupFailed)
	assert.ErrorIs(t, out.Err(), domain.ErrCleanupFailed)
	assert.Equal(t, primaryFailureTrace, out.Trace)
}

func TestExecute_TimeoutIsDistinctKind(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			res := exited(inv, -1)
			res.TimedOut = true
			return res, nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "junit3", Command: "test"})
	out := u.Execute(context.Background())

	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindTimeout, out.Kind)
	assert.ErrorIs(t, out.Err(), domain.ErrCommandTimeout)
}

func TestExecute_CheckFailureThenCleanup(t *testing.T) {
	var order []string
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			order = append(order, "primary")
			return ok(inv), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			order = append(order, "clean")
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{
		ID:      "include_path",
		Command: "package",
		Check: func(res *domain.RunResult, dir string) error {
			order = append(order, "check")
			assert.Equal(t, "/fixtures/include_path", dir)
			assert.True(t, res.Success)
			return errors.New("archive is missing distrib/doc/index.html")
		},
	})
	out := u.Execute(context.Background())

	assert.Equal(t, []string{"primary", "check", "clean"}, order)
	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindCheck, out.Kind)
	assert.True(t, out.CheckRan)
	assert.ErrorIs(t, out.Err(), domain.ErrCheckFailed)
	assert.Contains(t, out.Cause.Error(), "distrib/doc/index.html")
	assert.Equal(t, fullTrace, out.Trace)
}

func TestExecute_CheckPanicIsContained(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{
		ID:      "helloWorldEcj",
		Command: "package",
		Check: func(*domain.RunResult, string) error {
			var m map[string]int
			m["boom"] = 1
			return nil
		},
	})

	var out domain.Outcome
	require.NotPanics(t, func() { out = u.Execute(context.Background()) })

	assert.Equal(t, domain.KindCheck, out.Kind)
	var checkErr *domain.CheckError
	require.ErrorAs(t, out.Cause, &checkErr)
	assert.True(t, checkErr.Panicked)
	assert.Equal(t, domain.StateReported, out.State())
}

func TestExecute_CleanupFailureFailsOtherwisePassingUnit(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return exited(inv, 2), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "package_war_as_jar", Command: "package"})
	out := u.Execute(context.Background())

	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindCleanup, out.Kind)
	assert.ErrorIs(t, out.Err(), domain.ErrCleanupFailed)
	assert.Same(t, out.Cause, out.CleanupErr)
}

func TestExecute_CleanupFailureDoesNotMaskCheckFailure(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return exited(inv, 2), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{
		ID:      "generateFromPom",
		Command: "--generate pom.xml",
		Check: func(*domain.RunResult, string) error {
			return errors.New("buildfile mentions slf4j.version")
		},
	})
	out := u.Execute(context.Background())

	assert.Equal(t, domain.KindCheck, out.Kind)
	assert.ErrorIs(t, out.Cause, domain.ErrCheckFailed)
	assert.NotErrorIs(t, out.Cause, domain.ErrCleanupFailed)
	require.Error(t, out.CleanupErr)
	assert.ErrorIs(t, out.CleanupErr, domain.ErrCleanupFailed)
	assert.ErrorIs(t, out.Err(), domain.ErrCheckFailed)
	assert.ErrorIs(t, out.Err(), domain.ErrCleanupFailed)
}

func TestExecute_RunnerPanicStillCleansUp(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(context.Context, domain.Invocation) (*domain.RunResult, error) {
			panic("runner exploded")
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package"})

	var out domain.Outcome
	require.NotPanics(t, func() { out = u.Execute(context.Background()) })

	assert.Equal(t, domain.KindPrimaryCommand, out.Kind)
	assert.Contains(t, out.Cause.Error(), "runner exploded")
	assert.Equal(t, primaryFailureTrace, out.Trace)
}

func TestExecute_CleanupPanicIsContained(t *testing.T) {
	scenarios := []struct {
		name      string
		exitCode  int
		wantKind  domain.FailureKind
		wantTrace []domain.UnitState
	}{
		{
			name:      "primary passed",
			wantKind:  domain.KindCleanup,
			wantTrace: fullTrace,
		},
		{
			name:      "primary failed",
			exitCode:  2,
			wantKind:  domain.KindPrimaryCommand,
			wantTrace: primaryFailureTrace,
		},
	}

	for _, tt := range scenarios {
		t.Run(tt.name, func(t *testing.T) {
			runner := mocks.NewMockCommandRunner(t)
			runner.EXPECT().Run(mock.Anything, primaryInvocation()).
				RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
					if tt.exitCode != 0 {
						return exited(inv, tt.exitCode), nil
					}
					return ok(inv), nil
				}).Once()
			runner.EXPECT().Run(mock.Anything, cleanInvocation()).
				RunAndReturn(func(context.Context, domain.Invocation) (*domain.RunResult, error) {
					panic("clean exploded")
				}).Once()

			u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package"})

			var out domain.Outcome
			require.NotPanics(t, func() { out = u.Execute(context.Background()) })

			assert.False(t, out.Passed)
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantTrace, out.Trace)
			assert.Equal(t, domain.StateReported, out.State())
			require.Error(t, out.CleanupErr)
			assert.ErrorIs(t, out.CleanupErr, domain.ErrCleanupFailed)
			assert.Contains(t, out.CleanupErr.Error(), "clean exploded")
			assert.ErrorIs(t, out.Err(), domain.ErrCleanupFailed)
		})
	}
}

func TestExecute_CleanupIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, primaryInvocation()).
		RunAndReturn(func(ctx context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return exited(inv, -1), fmt.Errorf("command interrupted: %w", ctx.Err())
		}).Once()
	runner.EXPECT().Run(mock.Anything, cleanInvocation()).
		RunAndReturn(func(ctx context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			assert.NoError(t, ctx.Err(), "cleanup must not inherit cancellation")
			return ok(inv), nil
		}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package"})
	out := u.Execute(ctx)

	assert.Equal(t, domain.KindPrimaryCommand, out.Kind)
	assert.ErrorIs(t, out.Cause, context.Canceled)
	assert.Nil(t, out.CleanupErr)
}

func TestExecute_CleanupRunsExactlyOnce(t *testing.T) {
	scenarios := []struct {
		name      string
		primary   func(domain.Invocation) (*domain.RunResult, error)
		check     domain.Check
		wantKind  domain.FailureKind
		wantCheck bool
	}{
		{
			name:     "success without check",
			primary:  func(inv domain.Invocation) (*domain.RunResult, error) { return ok(inv), nil },
			wantKind: domain.KindNone,
		},
		{
			name:      "success with passing check",
			primary:   func(inv domain.Invocation) (*domain.RunResult, error) { return ok(inv), nil },
			check:     func(*domain.RunResult, string) error { return nil },
			wantKind:  domain.KindNone,
			wantCheck: true,
		},
		{
			name:     "nonzero exit",
			primary:  func(inv domain.Invocation) (*domain.RunResult, error) { return exited(inv, 1), nil },
			check:    func(*domain.RunResult, string) error { return nil },
			wantKind: domain.KindPrimaryCommand,
		},
		{
			name:      "check error",
			primary:   func(inv domain.Invocation) (*domain.RunResult, error) { return ok(inv), nil },
			check:     func(*domain.RunResult, string) error { return errors.New("nope") },
			wantKind:  domain.KindCheck,
			wantCheck: true,
		},
		{
			name:      "check panic",
			primary:   func(inv domain.Invocation) (*domain.RunResult, error) { return ok(inv), nil },
			check:     func(*domain.RunResult, string) error { panic("nope") },
			wantKind:  domain.KindCheck,
			wantCheck: true,
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			runner := mocks.NewMockCommandRunner(t)
			runner.EXPECT().Run(mock.Anything, primaryInvocation()).
				RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
					return sc.primary(inv)
				}).Once()
			runner.EXPECT().Run(mock.Anything, cleanInvocation()).
				RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
					return ok(inv), nil
				}).Once()

			u := singleUnit(t, runner, domain.Case{ID: "helloWorld", Command: "package", Check: sc.check})
			out := u.Execute(context.Background())

			runner.AssertNumberOfCalls(t, "Run", 2)
			assert.Equal(t, sc.wantKind, out.Kind)
			assert.Equal(t, sc.wantKind == domain.KindNone, out.Passed)
			assert.Equal(t, sc.wantCheck, out.CheckRan)

			cleaningUp := 0
			for _, s := range out.Trace {
				if s == domain.StateCleaningUp {
					cleaningUp++
				}
			}
			assert.Equal(t, 1, cleaningUp)
		})
	}
}

func TestUnitInvoke_UsesUnitDirectory(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.MatchedBy(func(inv domain.Invocation) bool {
		return inv.Dir == "/fixtures/package_war_as_jar" && len(inv.Args) == 1 && inv.Args[0] == "clean"
	})).RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
		return ok(inv), nil
	}).Once()

	u := singleUnit(t, runner, domain.Case{ID: "package_war_as_jar", Command: "package"})
	result, err := u.Invoke(context.Background(), "clean")

	require.NoError(t, err)
	assert.True(t, result.Success)
}
