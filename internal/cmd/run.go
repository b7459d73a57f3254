package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/renato0307/toolprobe/internal/config"
	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/ports"
	"github.com/renato0307/toolprobe/internal/services"
	"github.com/renato0307/toolprobe/internal/ui"
)

// RunCmd runs a suite file
type RunCmd struct {
	RunFlags   `embed:""`
	SuiteFlags `embed:""`

	Bell      bool   `help:"Play a sound when the suite finishes" env:"TOOLPROBE_BELL"`
	Filter    string `help:"Only run units whose name or case id matches this regular expression" name:"run" short:"r" placeholder:"REGEXP"`
	NoHistory bool   `help:"Do not record outcomes in the history database" env:"TOOLPROBE_NO_HISTORY"`
	Pick      bool   `help:"Choose the units to run interactively"`
	Progress  bool   `help:"Show a live progress view while units run"`
	Verbose   bool   `help:"Show each unit's directory and tool output" short:"v"`
}

// Run executes the suite and exits nonzero when any unit failed
func (r *RunCmd) Run(cli *CLI) error {
	settings := cli.loadedSettings()
	if !r.NoHistory && settings.NoHistory != nil && *settings.NoHistory {
		r.NoHistory = true
	}

	registry, opts, parallel, err := buildRegistry(r.SuiteFlags, r.RunFlags, settings, cli.Container.Runner, "")
	if err != nil {
		return err
	}

	units, err := r.selectUnits(registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder ports.OutcomeWriter
	if !r.NoHistory {
		if repo, err := cli.Container.History(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		} else {
			recorder = repo
		}
	}

	suiteOpts := services.SuiteOptions{
		Parallel:  parallel,
		SuitePath: r.Suite,
		Tool:      opts.Tool,
	}
	suite := services.NewSuiteService(recorder)

	logging.Logger.Info("Running suite",
		"suite", r.Suite,
		"units", len(units),
		"parallel", parallel,
		"tool", opts.Tool,
		"root", opts.Root)

	fmt.Print(ui.RenderHeader(r.Suite, opts.Tool, len(units)))

	var report *services.SuiteReport
	if r.Progress && ui.IsInteractive() {
		report, err = ui.RunWithProgress(ctx, suite, units, suiteOpts, r.Verbose, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	} else {
		var mu sync.Mutex
		suiteOpts.OnOutcome = func(out domain.Outcome) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Print(ui.RenderOutcome(out, r.Verbose))
		}
		report = suite.Run(ctx, units, suiteOpts)
	}

	fmt.Println()
	fmt.Print(ui.RenderSummary(report))

	if r.Bell {
		if err := cli.Container.Sound.PlaySuiteFinished(report.OK()); err != nil {
			logging.Logger.Warn("Failed to play sound", "error", err)
		}
	}

	if !report.OK() {
		return exitWith(ExitUnitsFailed, "%d of %d unit(s) did not pass", report.Failed+len(report.Skipped), len(units))
	}
	return nil
}

func (r *RunCmd) selectUnits(registry *services.Registry) ([]*services.Unit, error) {
	units, err := registry.Filter(r.Filter)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no unit matches %q", r.Filter)
	}

	if !r.Pick {
		return units, nil
	}
	if !ui.IsInteractive() {
		return nil, errors.New("--pick needs an interactive terminal")
	}

	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	picked, err := ui.PickUnits(names)
	if err != nil {
		return nil, err
	}

	selected := make([]*services.Unit, 0, len(picked))
	for _, name := range picked {
		u, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, u)
	}
	return selected, nil
}

// buildRegistry loads the suite file and registers its cases. Any
// registration failure, including name conflicts, is an ExitRegistration.
func buildRegistry(sf SuiteFlags, rf RunFlags, settings *config.Settings, runner ports.CommandRunner, fallbackTool string) (*services.Registry, services.RegistryOptions, int, error) {
	suite, err := config.LoadSuite(sf.Suite)
	if err != nil {
		return nil, services.RegistryOptions{}, 0, exitWith(ExitRegistration, "%w", err)
	}

	opts, parallel, err := resolveOptions(sf, rf, suite, settings, fallbackTool)
	if err != nil {
		return nil, opts, 0, exitWith(ExitRegistration, "%w", err)
	}

	opts.Invoker = services.NewToolInvoker()
	cases := suite.BuildCases(opts.Invoker.Invoke)
	registry, err := services.NewRegistry(cases, runner, opts)
	if err != nil {
		return nil, opts, 0, exitWith(ExitRegistration, "%w", err)
	}
	return registry, opts, parallel, nil
}
