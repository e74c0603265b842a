// Package ui provides the terminal user interface: a live plot of the
// series, derived statistics, and flag entry.
//
// The UI is a bubbletea program that refreshes on a timer. Every refresh
// reads the latest delta from the sync bridge and lock-bounded accessors
// on the series store; it never waits on the ingestion goroutine.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the monitor view.
type Styles struct {
	Title    lipgloss.Style
	Plot     lipgloss.Style
	StatKey  lipgloss.Style
	StatVal  lipgloss.Style
	Flag     lipgloss.Style
	FlagTime lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Plot:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		StatKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		StatVal:  lipgloss.NewStyle().Bold(true),
		Flag:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		FlagTime: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
