package domain

import (
	"errors"
	"time"
)

// UnitState is a step of the per-unit state machine.
type UnitState string

const (
	StatePending      UnitState = "pending"
	StateRunning      UnitState = "running"
	StateCheckRunning UnitState = "check_running"
	StateCleaningUp   UnitState = "cleaning_up"
	StateReported     UnitState = "reported"
)

// FailureKind classifies why a unit failed.
type FailureKind string

const (
	KindNone           FailureKind = ""
	KindCheck          FailureKind = "check"
	KindCleanup        FailureKind = "cleanup"
	KindPrimaryCommand FailureKind = "primary_command"
	KindTimeout        FailureKind = "timeout"
)

// Status symbols (Unicode)
const (
	SymbolFailed = "✗"
	SymbolPassed = "✓"
	SymbolWarn   = "!"
)

// Outcome is the single report produced by one unit execution.
type Outcome struct {
	CaseID     string
	Cause      error
	CheckRan   bool
	Cleanup    *RunResult
	CleanupErr error
	Dir        string
	Duration   time.Duration
	Kind       FailureKind
	Passed     bool
	Primary    *RunResult
	StartedAt  time.Time
	Trace      []UnitState
	UnitName   string
}

// Fail marks the outcome as failed unless a failure is already recorded.
func (o *Outcome) Fail(kind FailureKind, cause error) {
	if o.Kind != KindNone {
		return
	}
	o.Passed = false
	o.Kind = kind
	o.Cause = cause
}

// Enter appends a state transition to the trace.
func (o *Outcome) Enter(state UnitState) {
	o.Trace = append(o.Trace, state)
}

// State returns the last state the unit reached.
func (o *Outcome) State() UnitState {
	if len(o.Trace) == 0 {
		return StatePending
	}
	return o.Trace[len(o.Trace)-1]
}

// Err returns the outcome as a single error, nil for a clean pass.
func (o *Outcome) Err() error {
	if o.Passed {
		return nil
	}
	if o.CleanupErr != nil && o.Cause != o.CleanupErr {
		return errors.Join(o.Cause, o.CleanupErr)
	}
	return o.Cause
}

// KindFor maps a primary command error to its failure kind.
func KindFor(err error) FailureKind {
	if errors.Is(err, ErrCommandTimeout) {
		return KindTimeout
	}
	return KindPrimaryCommand
}
