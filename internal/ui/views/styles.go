package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Counts        lipgloss.Style
	Filter        lipgloss.Style
	Prompt        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	PopupBox      lipgloss.Style
	Checked       lipgloss.Style
	Unchecked     lipgloss.Style
	Pending       lipgloss.Style
	Disabled      lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Counts:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Filter:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Help:    lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		Checked:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Unchecked:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")), // white
		Pending:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		Disabled:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
	}
}
