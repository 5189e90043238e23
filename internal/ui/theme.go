package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Header  lipgloss.Style
	Step    lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Header:  lipgloss.NewStyle().Bold(true),
		Step:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}
