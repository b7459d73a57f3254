package theme

import "github.com/charmbracelet/lipgloss"

// Report styles
var (
	DirStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	DurationStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	KindStyle = lipgloss.NewStyle().
			Foreground(ColorKind).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	OutputStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(4)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)
)

// Outcome icon styles
var (
	FailedIconStyle = lipgloss.NewStyle().
			Foreground(ColorFailed)

	PassedIconStyle = lipgloss.NewStyle().
			Foreground(ColorPassed)

	SkippedIconStyle = lipgloss.NewStyle().
				Foreground(ColorSkipped)

	WarnIconStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)

// Summary line styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SummaryFailStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorFailed)

	SummaryPassStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPassed)
)

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)
)

// Progress styles
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorSpinner)

	RunningUnitStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight)
)
