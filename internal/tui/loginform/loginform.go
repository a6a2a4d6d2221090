// ABOUTME: Staff login form as a bubbletea model
// ABOUTME: Collects username and password with huh and reports them to the app for sign-in

package loginform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/styles"
)

// SubmittedMsg carries the credentials once both fields are filled
type SubmittedMsg struct {
	Username string
	Password string
}

// CancelledMsg is sent when the user leaves the form with esc
type CancelledMsg struct{}

// Form is the login screen
type Form struct {
	form     *huh.Form
	width    int
	notice   string
	rejected bool

	username string
	password string
}

// createTheme returns a huh theme in the brand colors
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	orange := lipgloss.Color("#F97316")
	orangeLight := lipgloss.Color("#FDBA74")
	navy := lipgloss.Color("#1E3A8A")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(orange).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(orange)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(orangeLight).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(orange)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(orange)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(navy).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates a login form. username prefills the first field and notice
// is shown above the form (for example after a session expired).
func New(username, notice string) *Form {
	f := &Form{username: username, notice: notice}
	f.form = f.buildForm()
	return f
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func (f *Form) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&f.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("password")),
		).Title("Sign in").
			Description("Staff account for the BrandsInfo admin API"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submitted := SubmittedMsg{Username: strings.TrimSpace(f.username), Password: f.password}
		return f, func() tea.Msg { return submitted }
	}
	return f, cmd
}

// Retry resets the form after a rejected login, keeping the username
func (f *Form) Retry(notice string) tea.Cmd {
	f.password = ""
	f.notice = notice
	f.rejected = true
	f.form = f.buildForm()
	return f.form.Init()
}

// Notice returns the message shown above the form
func (f *Form) Notice() string {
	return f.notice
}

// Username returns the username entered so far
func (f *Form) Username() string {
	return f.username
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(f.renderBanner())
	sb.WriteString("\n\n")
	if f.notice != "" {
		sb.WriteString(f.renderNotice())
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	return sb.String()
}

// renderNotice styles a rejected login as critical and other notices as warnings
func (f *Form) renderNotice() string {
	if f.rejected {
		return styles.StatusCritical.Render(icons.Critical.String() + " " + f.notice)
	}
	return styles.StatusWarning.Render(icons.Warning.String() + " " + f.notice)
}

// renderBanner draws the titled box above the form
func (f *Form) renderBanner() string {
	width := f.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := styles.Frame

	title := "BrandsInfo admin"
	styledTitle := styles.Brand.Render(title)

	// ┌─ title ─┐ is exactly width cells
	topFill := max(0, width-5-lipgloss.Width(title))
	top := borderStyle.Render("┌─ ") + styledTitle + borderStyle.Render(" "+strings.Repeat("─", topFill)+"┐")

	line := icons.Lock.String() + " Log in with a staff account"
	pad := max(0, width-4-lipgloss.Width(line))
	middle := borderStyle.Render("│ ") + line + strings.Repeat(" ", pad) + borderStyle.Render(" │")

	bottom := borderStyle.Render("└" + strings.Repeat("─", width-2) + "┘")
	return strings.Join([]string{top, middle, bottom}, "\n")
}
