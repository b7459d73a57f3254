package services

import (
	"fmt"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
)

// CheckEvaluator runs the optional post-run verification of a case
type CheckEvaluator struct{}

// NewCheckEvaluator creates a new CheckEvaluator
func NewCheckEvaluator() *CheckEvaluator {
	return &CheckEvaluator{}
}

// Evaluate runs check against result. A nil check passes. Errors and panics
// raised by the check come back as *domain.CheckError and never escape.
func (e *CheckEvaluator) Evaluate(check domain.Check, result *domain.RunResult, dir string) (err error) {
	if check == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Warn("Check panicked", "dir", dir, "panic", r)
			err = &domain.CheckError{Err: panicError(r), Panicked: true}
		}
	}()

	if checkErr := check(result, dir); checkErr != nil {
		logging.Logger.Debug("Check failed", "dir", dir, "error", checkErr)
		return &domain.CheckError{Err: checkErr}
	}
	return nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
