package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports"
	"github.com/renato0307/toolprobe/internal/ports/mocks"
)

func collectUnits(r *Registry) []*Unit {
	var units []*Unit
	for u := range r.Units() {
		units = append(units, u)
	}
	return units
}

func passingRunner(t *testing.T) *mocks.MockCommandRunner {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		}).Maybe()
	return runner
}

func TestSuiteRun_SequentialInRegistrationOrder(t *testing.T) {
	var mu sync.Mutex
	var dirs []string
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			mu.Lock()
			dirs = append(dirs, inv.Dir+" "+inv.Args[0])
			mu.Unlock()
			if inv.Dir == "/fixtures/include_path" && !isClean(inv) {
				return exited(inv, 1), nil
			}
			return ok(inv), nil
		})

	registry := newTestRegistry(t, runner,
		domain.Case{ID: "helloWorld", Command: "package"},
		domain.Case{ID: "include_path", Command: "package"},
		domain.Case{ID: "compile_only", Command: "compile"},
	)

	report := NewSuiteService(nil).Run(context.Background(), collectUnits(registry), SuiteOptions{})

	assert.Equal(t, []string{
		"/fixtures/helloWorld package",
		"/fixtures/helloWorld clean",
		"/fixtures/include_path package",
		"/fixtures/include_path clean",
		"/fixtures/compile_only compile",
		"/fixtures/compile_only clean",
	}, dirs)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, "Helloworld", report.Outcomes[0].UnitName)
	assert.Equal(t, "Include_path", report.Outcomes[1].UnitName)
	assert.Equal(t, "Compile_only", report.Outcomes[2].UnitName)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, report.Skipped)
	assert.False(t, report.OK())
	assert.NotEmpty(t, report.RunID)
}

func TestSuiteRun_OneFailureDoesNotAffectOthers(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			return ok(inv), nil
		})

	registry := newTestRegistry(t, runner,
		domain.Case{ID: "a", Command: "package", Check: func(*domain.RunResult, string) error {
			panic("first unit blew up")
		}},
		domain.Case{ID: "b", Command: "package"},
	)

	report := NewSuiteService(nil).Run(context.Background(), collectUnits(registry), SuiteOptions{})

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, domain.KindCheck, report.Outcomes[0].Kind)
	assert.True(t, report.Outcomes[1].Passed)
	runner.AssertNumberOfCalls(t, "Run", 4)
}

func TestSuiteRun_CleanupPanicDoesNotAbortRun(t *testing.T) {
	for _, parallel := range []int{1, 2} {
		t.Run(fmt.Sprintf("parallel=%d", parallel), func(t *testing.T) {
			runner := mocks.NewMockCommandRunner(t)
			runner.EXPECT().Run(mock.Anything, mock.Anything).
				RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
					if inv.Dir == "/fixtures/a" && isClean(inv) {
						panic("clean blew up")
					}
					return ok(inv), nil
				})

			registry := newTestRegistry(t, runner,
				domain.Case{ID: "a", Command: "package"},
				domain.Case{ID: "b", Command: "package"},
			)

			var report *SuiteReport
			require.NotPanics(t, func() {
				report = NewSuiteService(nil).Run(context.Background(), collectUnits(registry), SuiteOptions{Parallel: parallel})
			})

			require.Len(t, report.Outcomes, 2)
			assert.Equal(t, domain.KindCleanup, report.Outcomes[0].Kind)
			assert.Equal(t, domain.StateReported, report.Outcomes[0].State())
			assert.True(t, report.Outcomes[1].Passed)
			assert.Equal(t, 1, report.Failed)
			assert.Equal(t, 1, report.Passed)
			runner.AssertNumberOfCalls(t, "Run", 4)
		})
	}
}

func TestSuiteRun_RecordsHistory(t *testing.T) {
	runner := passingRunner(t)
	registry := newTestRegistry(t, runner,
		domain.Case{ID: "helloWorld", Command: "package"},
		domain.Case{ID: "include_path", Command: "package"},
	)

	recorder := mocks.NewMockOutcomeWriter(t)
	recorder.EXPECT().BeginRun(mock.Anything, mock.MatchedBy(func(run ports.SuiteRun) bool {
		return run.ID != "" && run.SuitePath == "examples/buildr.yaml" && run.Tool == testTool
	})).Return(nil).Once()
	recorder.EXPECT().RecordOutcome(mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(out domain.Outcome) bool {
		return out.Passed && out.State() == domain.StateReported
	})).Return(nil).Times(2)
	recorder.EXPECT().FinishRun(mock.Anything, mock.MatchedBy(func(run ports.SuiteRun) bool {
		return run.Passed == 2 && run.Failed == 0 && !run.FinishedAt.Before(run.StartedAt)
	})).Return(nil).Once()

	report := NewSuiteService(recorder).Run(context.Background(), collectUnits(registry), SuiteOptions{
		SuitePath: "examples/buildr.yaml",
		Tool:      testTool,
	})

	assert.True(t, report.OK())
}

func TestSuiteRun_RecorderErrorsDoNotFailUnits(t *testing.T) {
	runner := passingRunner(t)
	registry := newTestRegistry(t, runner, domain.Case{ID: "helloWorld", Command: "package"})

	recorder := mocks.NewMockOutcomeWriter(t)
	recorder.EXPECT().BeginRun(mock.Anything, mock.Anything).Return(errors.New("database is locked"))
	recorder.EXPECT().RecordOutcome(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("database is locked"))
	recorder.EXPECT().FinishRun(mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	report := NewSuiteService(recorder).Run(context.Background(), collectUnits(registry), SuiteOptions{})

	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Passed)
}

func TestSuiteRun_Parallel(t *testing.T) {
	var running, peak atomic.Int32
	runner := mocks.NewMockCommandRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, inv domain.Invocation) (*domain.RunResult, error) {
			if !isClean(inv) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				running.Add(-1)
			}
			return ok(inv), nil
		})

	cases := []domain.Case{
		{ID: "a", Command: "package"},
		{ID: "b", Command: "package"},
		{ID: "c", Command: "package"},
		{ID: "d", Command: "package"},
		{ID: "e", Command: "package"},
		{ID: "f", Command: "package"},
	}
	registry := newTestRegistry(t, runner, cases...)

	var outcomes atomic.Int32
	report := NewSuiteService(nil).Run(context.Background(), collectUnits(registry), SuiteOptions{
		OnOutcome: func(domain.Outcome) { outcomes.Add(1) },
		Parallel:  2,
	})

	assert.Equal(t, 6, report.Passed)
	assert.Equal(t, int32(6), outcomes.Load())
	assert.LessOrEqual(t, peak.Load(), int32(2))
	runner.AssertNumberOfCalls(t, "Run", 12)

	// Registration order is kept regardless of completion order.
	for i, out := range report.Outcomes {
		assert.Equal(t, cases[i].ID, out.CaseID)
	}
}

func TestSuiteRun_CancelledBeforeStart(t *testing.T) {
	for _, parallel := range []int{1, 3} {
		runner := mocks.NewMockCommandRunner(t)
		registry := newTestRegistry(t, runner,
			domain.Case{ID: "a", Command: "package"},
			domain.Case{ID: "b", Command: "package"},
		)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := NewSuiteService(nil).Run(ctx, collectUnits(registry), SuiteOptions{Parallel: parallel})

		assert.Empty(t, report.Outcomes)
		assert.Equal(t, []string{"A", "B"}, report.Skipped)
		assert.False(t, report.OK())
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	}
}

func TestSuiteRun_CancelStopsScheduling(t *testing.T) {
	runner := passingRunner(t)
	registry := newTestRegistry(t, runner,
		domain.Case{ID: "a", Command: "package"},
		domain.Case{ID: "b", Command: "package"},
		domain.Case{ID: "c", Command: "package"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started []string
	report := NewSuiteService(nil).Run(ctx, collectUnits(registry), SuiteOptions{
		OnStart:   func(u *Unit) { started = append(started, u.Name) },
		OnOutcome: func(domain.Outcome) { cancel() },
	})

	assert.Equal(t, []string{"A"}, started)
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].Passed)
	assert.Equal(t, []string{"B", "C"}, report.Skipped)
	runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestSuiteReport_OK(t *testing.T) {
	tests := []struct {
		name   string
		report SuiteReport
		want   bool
	}{
		{"empty", SuiteReport{}, true},
		{"all passed", SuiteReport{Passed: 3}, true},
		{"failure", SuiteReport{Passed: 2, Failed: 1}, false},
		{"skipped", SuiteReport{Passed: 1, Skipped: []string{"B"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.OK())
		})
	}
}
