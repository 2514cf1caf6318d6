package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand   = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#6c7086")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorError   = lipgloss.Color("#f7768e")

	titleStyle    = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Foreground(colorBrand).Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	selectedStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)

	toastSuccess = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSuccess).Padding(0, 1)
	toastError   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1)
)
