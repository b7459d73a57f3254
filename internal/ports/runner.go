package ports

import (
	"context"

	"github.com/renato0307/toolprobe/internal/domain"
)

// CommandRunner launches one external process and reports how it ended
type CommandRunner interface {
	// Run never treats a nonzero exit as an error; launch failures are errors
	Run(ctx context.Context, inv domain.Invocation) (*domain.RunResult, error)
}
