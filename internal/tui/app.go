// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, routes keyboard input, and returns to login when the session expires

package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/cache"
	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/debuglog"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/dashboard"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/listview"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/loginform"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/menu"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenDashboard
	ScreenList
)

// Layout constants
const (
	minTerminalWidth = 80
	panelChromeX     = 6 // ActivePanel border (2) and horizontal padding (4)
	panelChromeY     = 4 // ActivePanel border (2) and vertical padding (2)
	frameLines       = 3 // header, footer, notice line
)

// pageCacheTTL is how long a viewed list page is reused when paging back
const pageCacheTTL = 2 * time.Minute

// Notices shown on the login form
const (
	noticeExpired      = "Session expired, log in again"
	noticeInvalidLogin = "Invalid username or password"
	noticeLoggedOut    = "Logged out"
)

// loginResultMsg is sent when a login attempt finishes
type loginResultMsg struct {
	username string
	err      error
}

// dashboardLoadedMsg is sent when the analytics overview is fetched
type dashboardLoadedMsg struct {
	data *client.DashboardData
	err  error
}

// pageLoadedMsg is sent when a list page is fetched
type pageLoadedMsg struct {
	section menu.Section
	link    string
	page    listview.Page
	cached  bool
	err     error
}

// sessionExpiredMsg is sent by the session store when a refresh fails
type sessionExpiredMsg struct {
	err error
}

// loggedOutMsg is sent after the session is cleared
type loggedOutMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	ctx        context.Context
	client     *client.Client
	screen     Screen
	width      int
	height     int
	notice     string
	loading    bool
	lastUpdate time.Time
	username   string

	// list state
	section  menu.Section
	pageLink string
	pages    *cache.Cache[listview.Page]

	// Child models
	login     *loginform.Form
	menu      *menu.Menu
	dashboard *dashboard.Dashboard
	list      *listview.View
}

// New creates the TUI. A logged-in session starts on the menu,
// anything else on the login form.
func New(ctx context.Context, apiClient *client.Client) *App {
	a := &App{
		ctx:    ctx,
		client: apiClient,
		pages:  cache.New[listview.Page](pageCacheTTL, debuglog.L()),
	}
	if apiClient != nil {
		creds := apiClient.Session().Snapshot()
		a.username = creds.Username
		if creds.Authenticated {
			a.showMenu()
			return a
		}
	}
	a.showLogin("")
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	switch a.screen {
	case ScreenLogin:
		return a.login.Init()
	case ScreenMenu:
		return a.menu.Init()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dashboard != nil {
			a.dashboard.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.list != nil {
			a.list.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.login != nil {
			a.login.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// notices last until the next key press
		a.notice = ""

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenList:
			return a.updateList(msg)
		}

	case loginform.SubmittedMsg:
		a.loading = true
		return a, a.doLogin(msg.Username, msg.Password)

	case loginform.CancelledMsg, menu.CancelledMsg:
		return a, tea.Quit

	case loginResultMsg:
		a.loading = false
		if msg.err != nil {
			debuglog.Error("tui login", msg.err)
			notice := msg.err.Error()
			if errors.Is(msg.err, client.ErrInvalidCredentials) {
				notice = noticeInvalidLogin
			}
			return a, a.login.Retry(notice)
		}
		a.username = msg.username
		return a, a.showMenu()

	case menu.SectionSelectedMsg:
		return a.handleSectionSelected(msg)

	case dashboardLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		a.lastUpdate = time.Now()
		if a.dashboard == nil {
			a.dashboard = dashboard.New(msg.data, a.contentWidth(), a.contentHeight())
		} else {
			a.dashboard.Update(msg.data)
		}
		return a, nil

	case pageLoadedMsg:
		a.loading = false
		if msg.err != nil {
			return a, a.handleError(msg.err)
		}
		// a late page for a section the user already left
		if a.screen != ScreenList || msg.section != a.section {
			return a, nil
		}
		if !msg.cached {
			a.lastUpdate = time.Now()
			a.pages.Set(pageKey(msg.section, msg.page.Number), msg.page)
		}
		a.pageLink = msg.link
		if a.list == nil {
			a.list = listview.New(msg.page, a.contentWidth(), a.contentHeight())
		} else {
			a.list.SetPage(msg.page)
		}
		return a, nil

	case sessionExpiredMsg:
		debuglog.Log("tui: session expired: %v", msg.err)
		return a, a.expire()

	case loggedOutMsg:
		if msg.err != nil {
			debuglog.Error("tui logout", msg.err)
		}
		return a, a.showLogin(noticeLoggedOut)

	default:
		// huh forms need their internal messages
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenMenu:
			return a.updateMenu(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login == nil || a.loading {
		return a, nil
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*loginform.Form)
	return a, cmd
}

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.menu == nil {
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.loading = true
		return a, a.loadDashboard()
	case "b", "esc":
		return a, a.showMenu()
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		return a, a.showMenu()
	case "r":
		n := 1
		if a.list != nil {
			n = a.list.Page().Number
		}
		a.loading = true
		return a, a.loadPage(a.section, a.pageLink, n, true)
	case "n":
		if a.list != nil && a.list.Page().HasNext() && !a.loading {
			p := a.list.Page()
			a.loading = true
			return a, a.loadPage(a.section, p.Next, p.Number+1, false)
		}
		return a, nil
	case "p":
		if a.list != nil && a.list.Page().HasPrev() && !a.loading {
			p := a.list.Page()
			a.loading = true
			return a, a.loadPage(a.section, p.Prev, max(1, p.Number-1), false)
		}
		return a, nil
	}

	if a.list == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a *App) handleSectionSelected(msg menu.SectionSelectedMsg) (tea.Model, tea.Cmd) {
	a.section = msg.Section
	switch msg.Section {
	case menu.SectionDashboard:
		a.screen = ScreenDashboard
		a.loading = true
		return a, a.loadDashboard()

	case menu.SectionLogout:
		return a, a.doLogout()

	default:
		a.screen = ScreenList
		a.list = nil
		a.pageLink = ""
		a.loading = true
		return a, a.loadPage(msg.Section, "", 1, false)
	}
}

// handleError routes a failed request. Authentication failures end the
// session; anything else becomes a notice and the screen stays as it was.
func (a *App) handleError(err error) tea.Cmd {
	if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotLoggedIn) {
		debuglog.Warn("tui session ended: %v", err)
		return a.expire()
	}
	debuglog.Error("tui request", err)
	a.notice = err.Error()
	return nil
}

// expire returns to the login form. The session event and the failed
// request both arrive, so a second call keeps the form already shown.
func (a *App) expire() tea.Cmd {
	if a.screen == ScreenLogin {
		return nil
	}
	return a.showLogin(noticeExpired)
}

func (a *App) showLogin(notice string) tea.Cmd {
	a.screen = ScreenLogin
	a.loading = false
	a.dashboard = nil
	a.list = nil
	a.menu = nil
	a.lastUpdate = time.Time{}
	a.pages.Purge()
	a.login = loginform.New(a.username, notice)
	if a.width > 0 {
		a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a.login.Init()
}

func (a *App) showMenu() tea.Cmd {
	a.screen = ScreenMenu
	a.loading = false
	a.login = nil
	a.dashboard = nil
	a.list = nil
	a.menu = menu.New()
	return a.menu.Init()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenList:
		content = a.viewList()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	if a.loading {
		return a.login.View() + "\n" + styles.Subtitle.Render("Signing in...")
	}
	return a.login.View()
}

func (a *App) viewMenu() string {
	if a.menu == nil {
		return ""
	}
	greeting := "Signed in"
	if a.username != "" {
		greeting = "Signed in as " + a.username
	}
	return styles.Title.Render(icons.App.String()+" "+greeting) + "\n" + a.menu.View()
}

func (a *App) viewDashboard() string {
	panel := styles.ActivePanel.Width(a.frameWidth() - 2)
	if a.dashboard == nil {
		return panel.Render("Loading dashboard...")
	}
	return panel.Render(a.dashboard.View())
}

func (a *App) viewList() string {
	panel := styles.ActivePanel.Width(a.frameWidth() - 2)
	if a.list == nil {
		return panel.Render("Loading " + strings.ToLower(a.section.String()) + "...")
	}
	return panel.Render(a.list.View())
}

// frameWidth is one less than the terminal so the frame never wraps,
// but no narrower than minTerminalWidth
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// contentWidth is the width inside the content panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelChromeX
}

// contentHeight is the height inside the content panel
func (a *App) contentHeight() int {
	return max(a.height-frameLines-panelChromeY, 10)
}

// serverLabel shows who is logged in where, for the header
func (a *App) serverLabel() string {
	if a.client == nil || a.screen == ScreenLogin {
		return ""
	}
	host := a.client.BaseURL()
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	if a.username == "" {
		return host
	}
	return a.username + "@" + host
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	left := fmt.Sprintf(" %s %s ", icons.App.String(), styles.Brand.Render("BrandsInfo admin"))
	right := ""
	if label := a.serverLabel(); label != "" {
		right = " " + styles.ValueStyle.Render(label) + " "
	}

	// ╭─ and ─╮ take two cells each
	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))

	return styles.Frame.Render("╭─") + left +
		styles.Frame.Render(strings.Repeat("─", fill)) +
		right + styles.Frame.Render("─╮")
}

// shortcuts lists the keys active on the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenDashboard:
		return []string{"r Refresh", "b Back", "q Quit"}
	case ScreenList:
		return []string{"↑↓ Move", "n Next", "p Prev", "r Reload", "b Back", "q Quit"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	var styled []string
	for _, s := range a.shortcuts() {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, styles.KeyStyle.Render(key)+" "+styles.Help.Render(label))
	}
	left := " " + strings.Join(styled, "  ") + " "

	right := ""
	switch {
	case a.loading:
		right = " " + styles.StatusOK.Render(icons.Refresh.String()+" Loading...") + " "
	case !a.lastUpdate.IsZero() && (a.screen == ScreenDashboard || a.screen == ScreenList):
		right = " " + styles.StatusOK.Render("Updated "+a.formatTimeSince(a.lastUpdate)) + " "
	}

	// ╰─ and ─╯ take two cells each
	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))

	return styles.Frame.Render("╰─") + left +
		styles.Frame.Render(strings.Repeat("─", fill)) +
		right + styles.Frame.Render("─╯")
}

// renderNotice renders the transient error line, or an empty line
func (a *App) renderNotice() string {
	if a.notice == "" {
		return ""
	}
	line := icons.Warning.String() + " " + a.notice
	if lipgloss.Width(line) > a.frameWidth() {
		line = string([]rune(line)[:a.frameWidth()-3]) + "..."
	}
	return styles.Notice.Render(line)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header, notice line, and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderNotice())
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// doLogin creates a command that signs in with the given credentials
func (a *App) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.client.Login(a.ctx, username, password)
		return loginResultMsg{username: username, err: err}
	}
}

// doLogout creates a command that clears the session
func (a *App) doLogout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: a.client.Logout()}
	}
}

// loadDashboard creates a command to fetch the analytics overview
func (a *App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		data, err := a.client.Dashboard(a.ctx)
		return dashboardLoadedMsg{data: data, err: err}
	}
}

func pageKey(section menu.Section, n int) string {
	return fmt.Sprintf("%d/%d", section, n)
}

// loadPage creates a command to fetch page n of a list section. Unless
// fresh is set, a cached copy of the page is used when there is one; a
// fresh load drops that copy first.
func (a *App) loadPage(section menu.Section, link string, n int, fresh bool) tea.Cmd {
	load, ok := loaderFor(section)
	if !ok {
		return nil
	}
	if fresh {
		a.pages.Clear(pageKey(section, n))
	} else {
		if page, ok := a.pages.Get(pageKey(section, n)); ok {
			return func() tea.Msg {
				return pageLoadedMsg{section: section, link: link, page: page, cached: true}
			}
		}
	}
	return func() tea.Msg {
		page, err := load(a.ctx, a.client, link, n)
		return pageLoadedMsg{section: section, link: link, page: page, err: err}
	}
}

// Run starts the TUI. Session expiry anywhere in the client is forwarded
// to the program so the login form comes back.
func Run(ctx context.Context, apiClient *client.Client) error {
	app := New(ctx, apiClient)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	apiClient.Session().OnExpired(func(reason error) {
		p.Send(sessionExpiredMsg{err: reason})
	})

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
