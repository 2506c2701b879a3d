package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the review screen.
type Styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Kept     lipgloss.Style
	Skipped  lipgloss.Style
	Match    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Normal:  lipgloss.NewStyle(),
		Kept:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
		Match: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			PaddingLeft(4),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
	}
}
