package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	tierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("cyan"))

	sqlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
