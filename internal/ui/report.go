package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/toolprobe/internal/domain"
	"github.com/renato0307/toolprobe/internal/services"
	"github.com/renato0307/toolprobe/internal/theme"
)

// maxOutputLines caps how much tool output a failed unit prints
const maxOutputLines = 40

// RenderOutcome renders one unit as a status line followed by its cause,
// any cleanup diagnostic and, when verbose or failed, the tool output.
func RenderOutcome(out domain.Outcome, verbose bool) string {
	var b strings.Builder

	icon := theme.PassedIconStyle.Render(domain.SymbolPassed)
	if !out.Passed {
		icon = theme.FailedIconStyle.Render(domain.SymbolFailed)
	}
	fmt.Fprintf(&b, "%s %s %s", icon, theme.NormalStyle.Render(out.UnitName), theme.DurationStyle.Render(formatDuration(out.Duration)))
	if out.Kind != domain.KindNone {
		fmt.Fprintf(&b, " %s", theme.KindStyle.Render(string(out.Kind)))
	}
	b.WriteString("\n")

	if verbose {
		fmt.Fprintf(&b, "    %s\n", theme.DirStyle.Render(out.Dir))
	}
	if out.Cause != nil {
		fmt.Fprintf(&b, "    %s\n", theme.ErrorStyle.Render(out.Cause.Error()))
	}
	if out.CleanupErr != nil && out.Kind != domain.KindCleanup {
		fmt.Fprintf(&b, "    %s %s\n", theme.WarnIconStyle.Render(domain.SymbolWarn), theme.DirStyle.Render(out.CleanupErr.Error()))
	}

	if (verbose || !out.Passed) && out.Primary != nil && out.Primary.Output != "" {
		b.WriteString(theme.OutputStyle.Render(tail(out.Primary.Output, maxOutputLines)))
		b.WriteString("\n")
	}
	if !out.Passed && out.CleanupErr != nil && out.Cleanup != nil && out.Cleanup.Output != "" {
		b.WriteString(theme.OutputStyle.Render(tail(out.Cleanup.Output, maxOutputLines)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHeader renders the banner printed before a suite runs
func RenderHeader(suitePath, tool string, units int) string {
	title := theme.AppNameStyle.Render("toolprobe") + " " + theme.SubtitleStyle.Render(suitePath)
	detail := fmt.Sprintf("%d unit(s) with %s", units, tool)
	return theme.TitleStyle.Render(title) + "\n" + theme.DirStyle.Render(detail) + "\n\n"
}

// RenderSummary renders the closing line of a suite run, including units
// that never started because the run was interrupted.
func RenderSummary(report *services.SuiteReport) string {
	var b strings.Builder

	for _, name := range report.Skipped {
		fmt.Fprintf(&b, "%s %s %s\n",
			theme.SkippedIconStyle.Render("-"),
			theme.NormalStyle.Render(name),
			theme.DirStyle.Render("not started"))
	}

	line := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	if len(report.Skipped) > 0 {
		line += fmt.Sprintf(", %d not started", len(report.Skipped))
	}
	line += " in " + formatDuration(report.Duration)

	if report.OK() {
		b.WriteString(theme.SummaryPassStyle.Render(line))
	} else {
		b.WriteString(theme.SummaryFailStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	dropped := len(lines) - n
	return fmt.Sprintf("... %d lines omitted\n%s", dropped, strings.Join(lines[dropped:], "\n"))
}
