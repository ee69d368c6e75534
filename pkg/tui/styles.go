package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentPrimary   = lipgloss.Color("#50E3C2")
	accentSecondary = lipgloss.Color("#4A90E2")
	mutedColor      = lipgloss.Color("#7A7F87")
	successColor    = lipgloss.Color("#5FD068")
	warningColor    = lipgloss.Color("#F5A623")
	errorColor      = lipgloss.Color("#FF5F56")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentPrimary)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(accentSecondary)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentSecondary)

	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentPrimary).
			Padding(0, 2)
)
