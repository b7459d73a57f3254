package services

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/ports/mocks"
)

const testTool = "/opt/buildr/bin/buildr"

func isClean(inv domain.Invocation) bool {
	return len(inv.Args) == 1 && inv.Args[0] == "clean"
}

func isPrimary(inv domain.Invocation) bool {
	return !isClean(inv)
}

func cleanInvocation() any {
	return mock.MatchedBy(isClean)
}

func primaryInvocation() any {
	return mock.MatchedBy(isPrimary)
}

func ok(inv domain.Invocation) *domain.RunResult {
	return &domain.RunResult{Args: inv.Args, Dir: inv.Dir, Tool: inv.Tool, Success: true}
}

func exited(inv domain.Invocation, code int) *domain.RunResult {
	return &domain.RunResult{Args: inv.Args, Dir: inv.Dir, Tool: inv.Tool, ExitCode: code}
}

func newTestRegistry(t *testing.T, runner *mocks.MockCommandRunner, cases ...domain.Case) *Registry {
	t.Helper()
	registry, err := NewRegistry(cases, runner, RegistryOptions{
		Root: "/fixtures",
		Tool: testTool,
	})
	require.NoError(t, err)
	return registry
}

func singleUnit(t *testing.T, runner *mocks.MockCommandRunner, c domain.Case) *Unit {
	t.Helper()
	registry := newTestRegistry(t, runner, c)
	for u := range registry.Units() {
		return u
	}
	t.Fatal("registry produced no unit")
	return nil
}
