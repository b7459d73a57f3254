package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/renato0307/toolprobe/internal/domain"
)

// ToolInvoker hands checks a way to call the tool again. Calls are routed
// to the unit owning the directory so they carry that unit's environment,
// timeout and cancellation. Create one before building the cases and pass
// it to NewRegistry through RegistryOptions.Invoker.
type ToolInvoker struct {
	mu    sync.RWMutex
	units map[string]*Unit
}

// NewToolInvoker creates an empty ToolInvoker
func NewToolInvoker() *ToolInvoker {
	return &ToolInvoker{units: make(map[string]*Unit)}
}

// Invoke satisfies checks.Invoker
func (i *ToolInvoker) Invoke(ctx context.Context, dir string, args ...string) (*domain.RunResult, error) {
	i.mu.RLock()
	u, ok := i.units[filepath.Clean(dir)]
	i.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no unit runs in %s", domain.ErrUnitNotFound, dir)
	}
	return u.Invoke(ctx, args...)
}

func (i *ToolInvoker) bind(units []*Unit) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, u := range units {
		i.units[u.Dir] = u
	}
}
