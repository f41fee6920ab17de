// Package cli provides styled terminal output for the salesflow commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	accent  = lipgloss.Color("#5B8DEF")
	good    = lipgloss.Color("#4ECDC4")
	caution = lipgloss.Color("#FFE66D")
	bad     = lipgloss.Color("#FF6B6B")
	note    = lipgloss.Color("#95E1D3")
	muted   = lipgloss.Color("#666666")
	frame   = lipgloss.Color("#333333")
)

var (
	// TitleStyle is used for box and section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	// SubtleStyle formats secondary detail lines and table borders.
	SubtleStyle = lipgloss.NewStyle().Foreground(muted)

	// BoxStyle frames run summaries and detail views.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(1, 2)

	// TableHeaderStyle is used for lipgloss table headers.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)

	// TableCellStyle pads lipgloss table cells.
	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)

	successStyle = lipgloss.NewStyle().Foreground(good)
	warningStyle = lipgloss.NewStyle().Foreground(caution)
	errorStyle   = lipgloss.NewStyle().Foreground(bad)
	infoStyle    = lipgloss.NewStyle().Foreground(note)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

func iconLine(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string { return iconLine(successStyle, SuccessIcon, message) }

// FormatError formats an error message with icon.
func FormatError(message string) string { return iconLine(errorStyle, ErrorIcon, message) }

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string { return iconLine(warningStyle, WarningIcon, message) }

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string { return iconLine(infoStyle, InfoIcon, message) }

// FormatTitle prefixes title with the chart icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(ChartIcon + " " + title)
}

// RenderBox stacks title over content inside a rounded border.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}
