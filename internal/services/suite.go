package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// SuiteOptions controls how a set of units is scheduled
type SuiteOptions struct {
	// OnOutcome is called once per executed unit, possibly concurrently.
	OnOutcome func(domain.Outcome)
	// OnStart is called right before a unit starts, possibly concurrently.
	OnStart func(*Unit)
	// Parallel is the number of units allowed to run at once; <= 1 is sequential.
	Parallel  int
	SuitePath string
	Tool      string
}

// SuiteReport aggregates the outcomes of one suite run
type SuiteReport struct {
	Duration time.Duration
	Failed   int
	// Outcomes are in registration order; units that never started are absent.
	Outcomes  []domain.Outcome
	Passed    int
	RunID     string
	Skipped   []string
	StartedAt time.Time
}

// OK reports whether every scheduled unit ran and passed
func (r *SuiteReport) OK() bool {
	return r.Failed == 0 && len(r.Skipped) == 0
}

// SuiteService executes units and records their outcomes
type SuiteService struct {
	mu       sync.Mutex
	recorder ports.OutcomeWriter
}

// NewSuiteService creates a new SuiteService. recorder may be nil.
func NewSuiteService(recorder ports.OutcomeWriter) *SuiteService {
	return &SuiteService{recorder: recorder}
}

// Run executes units and returns their outcomes. Once ctx is cancelled no
// further unit is started; units already running still clean up.
func (s *SuiteService) Run(ctx context.Context, units []*Unit, opts SuiteOptions) *SuiteReport {
	report := &SuiteReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	s.beginRun(ctx, report, opts)

	results := make([]*domain.Outcome, len(units))
	execute := func(i int) {
		u := units[i]
		if opts.OnStart != nil {
			opts.OnStart(u)
		}
		out := u.Execute(ctx)
		results[i] = &out
		s.record(ctx, report.RunID, out)
		if opts.OnOutcome != nil {
			opts.OnOutcome(out)
		}
	}

	if opts.Parallel <= 1 {
		for i := range units {
			if ctx.Err() != nil {
				break
			}
			execute(i)
		}
	} else {
		// Units own distinct directories, so the only limit is the worker count.
		var g errgroup.Group
		g.SetLimit(opts.Parallel)
		for i := range units {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				execute(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, out := range results {
		if out == nil {
			report.Skipped = append(report.Skipped, units[i].Name)
			continue
		}
		report.Outcomes = append(report.Outcomes, *out)
		if out.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(report.StartedAt)

	s.finishRun(ctx, report, opts)

	logging.Logger.Info("Suite finished",
		"run_id", report.RunID,
		"passed", report.Passed,
		"failed", report.Failed,
		"skipped", len(report.Skipped),
		"duration", report.Duration)

	return report
}

func (s *SuiteService) beginRun(ctx context.Context, report *SuiteReport, opts SuiteOptions) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.BeginRun(context.WithoutCancel(ctx), ports.SuiteRun{
		ID:        report.RunID,
		StartedAt: report.StartedAt,
		SuitePath: opts.SuitePath,
		Tool:      opts.Tool,
	})
	if err != nil {
		logging.Logger.Warn("Failed to record suite start", "run_id", report.RunID, "error", err)
	}
}

func (s *SuiteService) record(ctx context.Context, runID string, out domain.Outcome) {
	if s.recorder == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recorder.RecordOutcome(context.WithoutCancel(ctx), runID, out); err != nil {
		logging.Logger.Warn("Failed to record outcome", "run_id", runID, "unit", out.UnitName, "error", err)
	}
}

func (s *SuiteService) finishRun(ctx context.Context, report *SuiteReport, opts SuiteOptions) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.FinishRun(context.WithoutCancel(ctx), ports.SuiteRun{
		Failed:     report.Failed,
		FinishedAt: report.StartedAt.Add(report.Duration),
		ID:         report.RunID,
		Passed:     report.Passed,
		StartedAt:  report.StartedAt,
		SuitePath:  opts.SuitePath,
		Tool:       opts.Tool,
	})
	if err != nil {
		logging.Logger.Warn("Failed to record suite finish", "run_id", report.RunID, "error", err)
	}
}
