// ABOUTME: Section menu shown after login
// ABOUTME: A huh select embedded as a bubbletea model that reports the chosen section

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
)

// Section is an admin area reachable from the menu
type Section int

const (
	SectionDashboard Section = iota
	SectionUsers
	SectionCategories
	SectionProductCategories
	SectionIPLogs
	SectionLogout
)

// SectionSelectedMsg is sent when the user picks a section
type SectionSelectedMsg struct {
	Section Section
}

// CancelledMsg is sent when the user leaves the menu with esc or q
type CancelledMsg struct{}

type option struct {
	label string
	value Section
}

// Menu is the section picker
type Menu struct {
	options  []option
	selected Section
	form     *huh.Form
}

// New creates a menu with the cursor on the dashboard
func New() *Menu {
	m := &Menu{
		options: []option{
			{label: "Dashboard", value: SectionDashboard},
			{label: "Users", value: SectionUsers},
			{label: "Categories", value: SectionCategories},
			{label: "Product categories", value: SectionProductCategories},
			{label: "IP logs", value: SectionIPLogs},
			{label: "Logout", value: SectionLogout},
		},
		selected: SectionDashboard,
	}
	m.form = m.buildForm()
	return m
}

func (m *Menu) buildForm() *huh.Form {
	options := make([]huh.Option[Section], 0, len(m.options))
	for _, opt := range m.options {
		options = append(options, huh.NewOption(opt.value.Icon().String()+" "+opt.label, opt.value))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Section]().
				Title("Go to").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(huh.ThemeBase()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		section := m.selected
		// ready for the next visit
		m.form = m.buildForm()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return SectionSelectedMsg{Section: section} })
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// Selected returns the section under the cursor
func (m *Menu) Selected() Section {
	return m.selected
}

// String returns the menu label of a section
func (s Section) String() string {
	switch s {
	case SectionDashboard:
		return "Dashboard"
	case SectionUsers:
		return "Users"
	case SectionCategories:
		return "Categories"
	case SectionProductCategories:
		return "Product categories"
	case SectionIPLogs:
		return "IP logs"
	case SectionLogout:
		return "Logout"
	default:
		return "unknown"
	}
}

// Icon returns the icon shown beside a section in the menu
func (s Section) Icon() icons.Icon {
	switch s {
	case SectionUsers:
		return icons.Users
	case SectionCategories:
		return icons.Category
	case SectionProductCategories:
		return icons.Product
	case SectionIPLogs:
		return icons.Globe
	case SectionLogout:
		return icons.Logout
	default:
		return icons.App
	}
}
