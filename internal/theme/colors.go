package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Unit outcome colors
const (
	ColorFailed  Color = "1" // Red - failed unit
	ColorPassed  Color = "2" // Green - passed unit
	ColorSkipped Color = "8" // Gray - never started
	ColorWarn    Color = "3" // Yellow - cleanup diagnostics
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
)

// Accent colors
const (
	ColorKind    Color = "141" // Purple - failure kind label
	ColorSpinner Color = "205" // Pink
)
