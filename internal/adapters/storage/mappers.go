package storage

import (
	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports"
)

// outcomeToModel converts a domain.Outcome to OutcomeModel (GORM)
func outcomeToModel(runID string, o domain.Outcome) OutcomeModel {
	m := OutcomeModel{
		CaseID:         o.CaseID,
		Dir:            o.Dir,
		DurationMillis: o.Duration.Milliseconds(),
		Kind:           string(o.Kind),
		Passed:         o.Passed,
		RunID:          runID,
		StartedAt:      o.StartedAt.UTC(),
		UnitName:       o.UnitName,
	}
	if o.Cause != nil {
		m.Cause = o.Cause.Error()
	}
	if o.CleanupErr != nil {
		m.CleanupCause = o.CleanupErr.Error()
	}
	if o.Primary != nil {
		m.Output = o.Primary.Output
	}
	if o.Cleanup != nil {
		m.CleanupOutput = o.Cleanup.Output
	}
	return m
}

// outcomeModelToRecord converts an OutcomeModel (GORM) to ports.OutcomeRecord
func outcomeModelToRecord(m OutcomeModel) ports.OutcomeRecord {
	return ports.OutcomeRecord{
		CaseID:         m.CaseID,
		Cause:          m.Cause,
		CleanupCause:   m.CleanupCause,
		CleanupOutput:  m.CleanupOutput,
		Dir:            m.Dir,
		DurationMillis: m.DurationMillis,
		Kind:           domain.FailureKind(m.Kind),
		Output:         m.Output,
		Passed:         m.Passed,
		RunID:          m.RunID,
		StartedAt:      m.StartedAt,
		UnitName:       m.UnitName,
	}
}

// suiteRunToModel converts a ports.SuiteRun to SuiteRunModel (GORM)
func suiteRunToModel(r ports.SuiteRun) SuiteRunModel {
	m := SuiteRunModel{
		Failed:    r.Failed,
		ID:        r.ID,
		Passed:    r.Passed,
		StartedAt: r.StartedAt.UTC(),
		SuitePath: r.SuitePath,
		Tool:      r.Tool,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt.UTC()
		m.FinishedAt = &finished
	}
	return m
}

// suiteRunModelToPort converts a SuiteRunModel (GORM) to ports.SuiteRun
func suiteRunModelToPort(m SuiteRunModel) ports.SuiteRun {
	r := ports.SuiteRun{
		Failed:    m.Failed,
		ID:        m.ID,
		Passed:    m.Passed,
		StartedAt: m.StartedAt,
		SuitePath: m.SuitePath,
		Tool:      m.Tool,
	}
	if m.FinishedAt != nil {
		r.FinishedAt = *m.FinishedAt
	}
	return r
}
