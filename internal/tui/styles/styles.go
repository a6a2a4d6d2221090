// ABOUTME: Shared lipgloss styles for the bi-admin TUI
// ABOUTME: Brand palette, panels, frame lines, and status styles used by every screen

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Brand palette (the web dashboard's orange and navy)
	Primary   = lipgloss.Color("#F97316") // Orange
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Navy      = lipgloss.Color("#1E3A8A")

	Accent = lipgloss.Color("#FDBA74") // Light orange for key hints
	Info   = lipgloss.Color("#3B82F6")

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Header and footer frame lines
	Frame = lipgloss.NewStyle().
		Foreground(Muted)

	// App name in the header
	Brand = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Key and label of a footer shortcut
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent)

	Help = lipgloss.NewStyle().
		Foreground(Muted)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	// Notice line shown under the content for request errors
	Notice = lipgloss.NewStyle().
		Foreground(Warning)

	// Selected row in lists
	Selected = lipgloss.NewStyle().
			Foreground(Text).
			Background(Navy)
)
