package services

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"path/filepath"
	"regexp"
	"time"

	"github.com/anmitsu/go-shlex"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
)

// RegistryOptions holds suite-wide settings shared by every unit
type RegistryOptions struct {
	CleanArgs      []string
	CleanupTimeout time.Duration
	Env            map[string]string
	Invoker        *ToolInvoker
	Root           string
	Timeout        time.Duration
	Tool           string
}

// Registry turns an ordered table of cases into units, one per case
type Registry struct {
	byName map[string]*Unit
	units  []*Unit
}

// NewRegistry validates every case and derives its unit. It fails before
// anything runs when a case is invalid or two identifiers normalize to the
// same unit name; in that case the error wraps a *domain.ConflictError.
func NewRegistry(cases []domain.Case, runner ports.CommandRunner, opts RegistryOptions) (*Registry, error) {
	if runner == nil {
		return nil, errors.New("registry requires a command runner")
	}
	if opts.Tool == "" {
		return nil, fmt.Errorf("%w: no tool configured", domain.ErrInvalidCase)
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve test root %q: %w", opts.Root, err)
	}

	evaluator := NewCheckEvaluator()
	guard := NewCleanupGuarantor(runner, opts.Tool, opts.CleanArgs, opts.CleanupTimeout)

	var problems []error
	claims := make(map[string][]string)
	units := make([]*Unit, 0, len(cases))

	for _, c := range cases {
		if err := c.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}

		name, err := domain.UnitName(c.ID)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		claims[name] = append(claims[name], c.ID)

		args, err := caseArgs(c)
		if err != nil {
			problems = append(problems, err)
			continue
		}

		timeout := opts.Timeout
		if c.Timeout > 0 {
			timeout = c.Timeout
		}

		units = append(units, &Unit{
			Args:      args,
			Case:      c,
			Dir:       c.Dir(root),
			Env:       mergeEnv(opts.Env, c.Env),
			Name:      name,
			evaluator: evaluator,
			guard:     guard,
			runner:    runner,
			timeout:   timeout,
			tool:      opts.Tool,
		})
	}

	conflicts := make(map[string][]string)
	for name, ids := range claims {
		if len(ids) > 1 {
			conflicts[name] = ids
		}
	}
	if len(conflicts) > 0 {
		problems = append(problems, &domain.ConflictError{Conflicts: conflicts})
	}

	if len(problems) > 0 {
		logging.Logger.Error("Registration failed", "problems", len(problems))
		return nil, errors.Join(problems...)
	}

	byName := make(map[string]*Unit, len(units))
	for _, u := range units {
		byName[u.Name] = u
	}

	if opts.Invoker != nil {
		opts.Invoker.bind(units)
	}

	logging.Logger.Debug("Registered units", "count", len(units), "root", root, "tool", opts.Tool)
	return &Registry{byName: byName, units: units}, nil
}

// Units yields the units lazily in registration order
func (r *Registry) Units() iter.Seq[*Unit] {
	return func(yield func(*Unit) bool) {
		for _, u := range r.units {
			if !yield(u) {
				return
			}
		}
	}
}

// Len returns the number of registered units
func (r *Registry) Len() int {
	return len(r.units)
}

// Names returns the unit names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.units))
	for i, u := range r.units {
		names[i] = u.Name
	}
	return names
}

// Lookup returns the unit registered under name
func (r *Registry) Lookup(name string) (*Unit, error) {
	u, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnitNotFound, name)
	}
	return u, nil
}

// Filter returns the units whose name or case identifier matches pattern,
// in registration order. An empty pattern selects everything.
func (r *Registry) Filter(pattern string) ([]*Unit, error) {
	if pattern == "" {
		return append([]*Unit(nil), r.units...), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid unit filter %q: %w", pattern, err)
	}

	var selected []*Unit
	for _, u := range r.units {
		if re.MatchString(u.Name) || re.MatchString(u.Case.ID) {
			selected = append(selected, u)
		}
	}
	return selected, nil
}

// caseArgs returns the argument vector for a case, splitting Command
// shell-style when Args is not given.
func caseArgs(c domain.Case) ([]string, error) {
	if len(c.Args) > 0 {
		return append([]string(nil), c.Args...), nil
	}
	args, err := shlex.Split(c.Command, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: cannot parse command %q: %v", domain.ErrInvalidCase, c.ID, c.Command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s has no command", domain.ErrInvalidCase, c.ID)
	}
	return args, nil
}

func mergeEnv(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	env := make(map[string]string, len(base)+len(override))
	maps.Copy(env, base)
	maps.Copy(env, override)
	return env
}
