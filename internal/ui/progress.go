package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/logging"
	"github.com/renato0307/toolprobe/internal/services"
	"github.com/renato0307/toolprobe/internal/theme"
)

type unitStartedMsg struct {
	name string
	at   time.Time
}

type unitFinishedMsg struct {
	outcome domain.Outcome
}

type suiteFinishedMsg struct {
	report *services.SuiteReport
}

// ProgressModel is the live view shown while a suite runs: finished units
// scroll above a spinner line listing the units still running.
type ProgressModel struct {
	cancel      context.CancelFunc
	finished    []domain.Outcome
	interrupted bool
	report      *services.SuiteReport
	running     map[string]time.Time
	spinner     spinner.Model
	total       int
	verbose     bool
}

// NewProgressModel creates a ProgressModel for total units. cancel is called
// when the user presses ctrl+c; units already running still clean up.
func NewProgressModel(total int, verbose bool, cancel context.CancelFunc) *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	return &ProgressModel{
		cancel:  cancel,
		running: make(map[string]time.Time),
		spinner: s,
		total:   total,
		verbose: verbose,
	}
}

func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case unitStartedMsg:
		m.running[msg.name] = msg.at
		return m, nil

	case unitFinishedMsg:
		delete(m.running, msg.outcome.UnitName)
		m.finished = append(m.finished, msg.outcome)
		return m, tea.Println(strings.TrimRight(RenderOutcome(msg.outcome, m.verbose), "\n"))

	case suiteFinishedMsg:
		m.report = msg.report
		m.running = map[string]time.Time{}
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.interrupted {
			logging.Logger.Info("Suite interrupted from progress view")
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ProgressModel) View() string {
	if m.report != nil {
		return ""
	}

	names := make([]string, 0, len(m.running))
	for name := range m.running {
		names = append(names, name)
	}
	sort.Strings(names)

	status := fmt.Sprintf("%d/%d", len(m.finished), m.total)
	if m.interrupted {
		status += " interrupted, waiting for cleanup"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", m.spinner.View(), theme.DurationStyle.Render(status), theme.RunningUnitStyle.Render(strings.Join(names, " ")))
	return b.String()
}

// Report returns the suite report once the run finished, nil before.
func (m *ProgressModel) Report() *services.SuiteReport {
	return m.report
}

// RunWithProgress runs units through suite while showing the progress view
// on out. Outcomes are printed as units finish, so the caller only needs to
// print the summary.
func RunWithProgress(ctx context.Context, suite *services.SuiteService, units []*services.Unit, opts services.SuiteOptions, verbose bool, out io.Writer) (*services.SuiteReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProgressModel(len(units), verbose, cancel)
	p := tea.NewProgram(model, tea.WithOutput(out))

	onStart, onOutcome := opts.OnStart, opts.OnOutcome
	opts.OnStart = func(u *services.Unit) {
		if onStart != nil {
			onStart(u)
		}
		p.Send(unitStartedMsg{name: u.Name, at: time.Now()})
	}
	opts.OnOutcome = func(o domain.Outcome) {
		if onOutcome != nil {
			onOutcome(o)
		}
		p.Send(unitFinishedMsg{outcome: o})
	}

	done := make(chan *services.SuiteReport, 1)
	go func() {
		report := suite.Run(ctx, units, opts)
		done <- report
		p.Send(suiteFinishedMsg{report: report})
	}()

	if _, err := p.Run(); err != nil {
		logging.Logger.Error("Progress view failed", "error", err)
		cancel()
		return <-done, fmt.Errorf("progress view failed: %w", err)
	}
	return <-done, nil
}
