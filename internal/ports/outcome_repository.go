package ports

import (
	"context"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
)

// SuiteRun summarizes one execution of a whole suite
type SuiteRun struct {
	Failed     int
	FinishedAt time.Time
	ID         string
	Passed     int
	StartedAt  time.Time
	SuitePath  string
	Tool       string
}

// OutcomeRecord is a stored unit outcome
type OutcomeRecord struct {
	CaseID         string
	Cause          string
	CleanupCause   string
	CleanupOutput  string
	Dir            string
	DurationMillis int64
	Kind           domain.FailureKind
	Output         string
	Passed         bool
	RunID          string
	StartedAt      time.Time
	UnitName       string
}

// OutcomeWriter records suite runs and unit outcomes
type OutcomeWriter interface {
	BeginRun(ctx context.Context, run SuiteRun) error
	FinishRun(ctx context.Context, run SuiteRun) error
	RecordOutcome(ctx context.Context, runID string, outcome domain.Outcome) error
}

// OutcomeReader reads recorded history
type OutcomeReader interface {
	ListOutcomes(ctx context.Context, runID string) ([]OutcomeRecord, error)
	ListRuns(ctx context.Context, limit int) ([]SuiteRun, error)
	UnitHistory(ctx context.Context, unitName string, limit int) ([]OutcomeRecord, error)
}

// OutcomeRepository is the composite interface
type OutcomeRepository interface {
	OutcomeReader
	OutcomeWriter
	Close() error
}
