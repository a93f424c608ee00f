package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// Colour palette for terminal output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6C7086") // Medium gray
	colorSuccess = lipgloss.Color("#A6E3A1") // Green
	colorWarning = lipgloss.Color("#F9E2AF") // Yellow
	colorError   = lipgloss.Color("#F38BA8") // Red
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(18)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
)

// renderSummary formats a finished run for the terminal.
func renderSummary(report *domain.RunReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(summaryTitle(report)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Run", report.RunID)
	row("Pages", fmt.Sprint(report.Pages))
	row("Patches listed", fmt.Sprint(report.ItemsListed))

	switch report.Mode {
	case domain.ModeDownload:
		row("Patches resolved", fmt.Sprint(report.ItemsResolved))
		row("Files downloaded", successStyle.Render(fmt.Sprint(report.FilesDownloaded)))
		row("Bytes written", fmt.Sprint(report.BytesWritten))
		row("Patches skipped", countStyle(report.ItemsSkipped, warningStyle))
		row("Files failed", countStyle(report.FilesFailed, errorStyle))
	case domain.ModeReport:
		row("Report", report.ReportPath)
	}

	if report.ListingErr != nil {
		row("Listing", warningStyle.Render("stopped early: "+report.ListingErr.Error()))
	}
	row("Duration", report.Duration().Round(time.Millisecond).String())

	return b.String()
}

func summaryTitle(report *domain.RunReport) string {
	switch {
	case report.Mode == domain.ModeReport:
		return "Export finished"
	case report.Complete():
		return "Sync finished"
	default:
		return "Sync finished with skips"
	}
}

func countStyle(n int, style lipgloss.Style) string {
	if n == 0 {
		return fmt.Sprint(n)
	}
	return style.Render(fmt.Sprint(n))
}
