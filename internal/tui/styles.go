package tui

import "github.com/charmbracelet/lipgloss"

// Palette for the wizard.
var (
	Primary     = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	Accent      = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}
	Muted       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
)

// Styles holds the lipgloss styles used by the views.
type Styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Tagline  lipgloss.Style
	Step     lipgloss.Style
	Section  lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Quote    lipgloss.Style
	Summary  lipgloss.Style
	Key      lipgloss.Style
	Footer   lipgloss.Style
	Spinner  lipgloss.Style
	Progress lipgloss.Style
}

// DefaultStyles returns the wizard styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Tagline: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginBottom(1),
		Step:    lipgloss.NewStyle().Foreground(Muted),
		Section: lipgloss.NewStyle().Foreground(Accent).Bold(true),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),
		Quote: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Accent),
		Summary: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Primary),
		Key:      lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Spinner:  lipgloss.NewStyle().Foreground(Accent),
		Progress: lipgloss.NewStyle().Foreground(Primary),
	}
}
