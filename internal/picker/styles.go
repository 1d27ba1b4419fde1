package picker

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the picker.
type Styles struct {
	Title    lipgloss.Style
	Prompt   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Frame    lipgloss.Style
}

// DefaultStyles returns the picker's default palette.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Frame:    lipgloss.NewStyle().Padding(1, 2),
	}
}
