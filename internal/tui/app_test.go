// ABOUTME: Integration tests for the TUI app
// ABOUTME: Drives screen transitions against a fake API, including session expiry

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/session"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/loginform"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/menu"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fakeAPI serves the endpoints the TUI uses. Access token "A1" is valid
// until expired is set; after that every call is a 401 and refresh fails.
type fakeAPI struct {
	expired   atomic.Bool
	refreshes atomic.Int32
	userHits  atomic.Int32
	url       string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/badmin/login/":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "staff" || body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"sessionid": "A1", "refresh_token": "R1"})
		return
	case client.RefreshPath:
		f.refreshes.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	if f.expired.Load() || r.Header.Get("Authorization") != "Bearer A1" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid"})
		return
	}

	switch r.URL.Path {
	case "/badmin/dash/":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"total_buisnesses": 12,
			"total_users":      40,
			"tier_3_subs":      2,
			"no_plan":          10,
		}})
	case "/badmin/get_users/":
		f.userHits.Add(1)
		page := r.URL.Query().Get("page")
		if page == "2" {
			writeJSON(w, http.StatusOK, map[string]any{
				"count": 3, "page_size": 2,
				"links":   map[string]any{"next": nil, "previous": f.url + "/badmin/get_users/"},
				"results": []map[string]any{{"id": 3, "first_name": "Meera"}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count": 3, "page_size": 2, "total_user_count": 3,
			"links": map[string]any{"next": f.url + "/badmin/get_users/?page=2", "previous": nil},
			"results": []map[string]any{
				{"id": 1, "first_name": "Asha", "is_vendor": true},
				{"id": 2, "first_name": "Ravi", "is_customer": true},
			},
		})
	case "/badmin/get_gcats/":
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database unavailable"})
	default:
		http.NotFound(w, r)
	}
}

// newApp returns an app against a fake API, logged in when loggedIn is set
func newApp(t *testing.T, loggedIn bool) (*App, *fakeAPI, *session.Store) {
	t.Helper()
	api := &fakeAPI{}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	api.url = server.URL

	sess := session.New("")
	if loggedIn {
		require.NoError(t, sess.Login("staff", "A1", "R1"))
	}
	app := New(context.Background(), client.New(server.URL, sess))
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, api, sess
}

// step feeds msg to the app and returns the message produced by its command
func step(t *testing.T, app *App, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := app.Update(msg)
	require.NotNil(t, cmd, "expected a command for %T", msg)
	return cmd()
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppInitialScreen(t *testing.T) {
	app := New(context.Background(), nil)
	assert.Equal(t, ScreenLogin, app.screen)
	assert.NotNil(t, app.login)

	app, _, _ = newApp(t, false)
	assert.Equal(t, ScreenLogin, app.screen)

	app, _, _ = newApp(t, true)
	assert.Equal(t, ScreenMenu, app.screen)
	assert.NotNil(t, app.menu)
	assert.Equal(t, "staff", app.username)
}

func TestScreenConstants(t *testing.T) {
	assert.Equal(t, Screen(0), ScreenLogin)
	assert.Equal(t, Screen(1), ScreenMenu)
	assert.Equal(t, Screen(2), ScreenDashboard)
	assert.Equal(t, Screen(3), ScreenList)
}

func TestLoginSuccess(t *testing.T) {
	app, _, sess := newApp(t, false)

	msg := step(t, app, loginform.SubmittedMsg{Username: "staff", Password: "secret"})
	assert.True(t, app.loading)
	require.IsType(t, loginResultMsg{}, msg)

	app.Update(msg)
	assert.Equal(t, ScreenMenu, app.screen)
	assert.False(t, app.loading)
	assert.Equal(t, "staff", app.username)
	assert.True(t, sess.Snapshot().Authenticated)
	assert.Contains(t, app.View(), "Signed in as staff")
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, _, sess := newApp(t, false)

	msg := step(t, app, loginform.SubmittedMsg{Username: "staff", Password: "wrong"})
	app.Update(msg)

	assert.Equal(t, ScreenLogin, app.screen)
	assert.Equal(t, noticeInvalidLogin, app.login.Notice())
	assert.False(t, sess.Snapshot().Authenticated)
}

func TestDashboardSection(t *testing.T) {
	app, _, _ := newApp(t, true)

	msg := step(t, app, menu.SectionSelectedMsg{Section: menu.SectionDashboard})
	assert.Equal(t, ScreenDashboard, app.screen)
	assert.Contains(t, app.View(), "Loading")

	loaded, ok := msg.(dashboardLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	app.Update(loaded)

	require.NotNil(t, app.dashboard)
	view := app.View()
	assert.Contains(t, view, "Directory overview")
	assert.Contains(t, view, "Updated just now")
	assert.Contains(t, view, "r Refresh")

	app.Update(key("b"))
	assert.Equal(t, ScreenMenu, app.screen)
}

func TestListPaging(t *testing.T) {
	app, api, _ := newApp(t, true)

	app.Update(step(t, app, menu.SectionSelectedMsg{Section: menu.SectionUsers}))
	require.Equal(t, ScreenList, app.screen)
	require.NotNil(t, app.list)
	assert.Equal(t, 1, app.list.Page().Number)
	assert.Contains(t, app.View(), "Page 1, showing 1-2 of 3")

	app.Update(step(t, app, key("n")))
	assert.Equal(t, 2, app.list.Page().Number)
	assert.Contains(t, app.View(), "Meera")
	assert.Contains(t, app.View(), "Page 2, showing 3-3 of 3")

	// no next link on the last page
	_, cmd := app.Update(key("n"))
	assert.Nil(t, cmd)

	// paging back reuses the first page
	msg := step(t, app, key("p"))
	assert.True(t, msg.(pageLoadedMsg).cached)
	app.Update(msg)
	assert.Equal(t, 1, app.list.Page().Number)
	assert.Contains(t, app.View(), "Asha")
	assert.Equal(t, int32(2), api.userHits.Load())

	// reload always goes to the API and drops the cached copy
	require.Equal(t, 2, app.pages.Len())
	msg = step(t, app, key("r"))
	assert.False(t, msg.(pageLoadedMsg).cached)
	assert.Equal(t, 1, app.pages.Len())
	app.Update(msg)
	assert.Equal(t, 2, app.pages.Len())
	assert.Equal(t, int32(3), api.userHits.Load())
	assert.Equal(t, 1, app.list.Page().Number)
}

func TestPageCachePurgedOnExpiry(t *testing.T) {
	app, _, _ := newApp(t, true)
	app.Update(step(t, app, menu.SectionSelectedMsg{Section: menu.SectionUsers}))
	require.Equal(t, 1, app.pages.Len())

	app.Update(sessionExpiredMsg{})
	assert.Equal(t, 0, app.pages.Len())
}

func TestRequestErrorShowsNotice(t *testing.T) {
	app, _, _ := newApp(t, true)

	app.Update(step(t, app, menu.SectionSelectedMsg{Section: menu.SectionCategories}))
	assert.Equal(t, ScreenList, app.screen)
	assert.Contains(t, app.notice, "database unavailable")
	assert.Contains(t, app.View(), "database unavailable")

	// the notice clears on the next key press
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, app.notice)
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	app, api, sess := newApp(t, true)

	var events atomic.Int32
	sess.OnExpired(func(error) { events.Add(1) })

	app.Update(step(t, app, menu.SectionSelectedMsg{Section: menu.SectionDashboard}))
	require.NotNil(t, app.dashboard)

	api.expired.Store(true)
	msg := step(t, app, key("r"))
	loaded := msg.(dashboardLoadedMsg)
	require.ErrorIs(t, loaded.err, client.ErrSessionExpired)
	assert.Equal(t, int32(1), api.refreshes.Load())
	assert.Equal(t, int32(1), events.Load())
	assert.False(t, sess.Snapshot().Authenticated)

	app.Update(loaded)
	assert.Equal(t, ScreenLogin, app.screen)
	assert.Nil(t, app.dashboard)
	assert.Equal(t, noticeExpired, app.login.Notice())
	assert.Equal(t, "staff", app.login.Username())

	// the store's event arrives as well and keeps the same form
	form := app.login
	app.Update(sessionExpiredMsg{err: errors.New("refresh rejected")})
	assert.Same(t, form, app.login)
}

func TestSessionExpiredMsgFromAnyScreen(t *testing.T) {
	app, _, _ := newApp(t, true)
	app.Update(step(t, app, menu.SectionSelectedMsg{Section: menu.SectionUsers}))
	require.Equal(t, ScreenList, app.screen)

	app.Update(sessionExpiredMsg{err: client.ErrNoRefreshToken})
	assert.Equal(t, ScreenLogin, app.screen)
	assert.Nil(t, app.list)
	assert.Contains(t, app.View(), noticeExpired)
}

func TestNotLoggedInErrorReturnsToLogin(t *testing.T) {
	app, _, _ := newApp(t, true)
	app.screen = ScreenDashboard

	app.Update(dashboardLoadedMsg{err: fmt.Errorf("failed to load dashboard: %w", client.ErrNotLoggedIn)})
	assert.Equal(t, ScreenLogin, app.screen)
}

func TestLogout(t *testing.T) {
	app, _, sess := newApp(t, true)

	msg := step(t, app, menu.SectionSelectedMsg{Section: menu.SectionLogout})
	require.IsType(t, loggedOutMsg{}, msg)
	app.Update(msg)

	assert.Equal(t, ScreenLogin, app.screen)
	assert.Equal(t, noticeLoggedOut, app.login.Notice())
	assert.False(t, sess.Snapshot().Authenticated)
}

func TestLatePageIsIgnored(t *testing.T) {
	app, _, _ := newApp(t, true)
	msg := step(t, app, menu.SectionSelectedMsg{Section: menu.SectionUsers})

	app.Update(key("b"))
	require.Equal(t, ScreenMenu, app.screen)

	app.Update(msg)
	assert.Equal(t, ScreenMenu, app.screen)
	assert.Nil(t, app.list)
}

func TestQuitKeys(t *testing.T) {
	app, _, _ := newApp(t, true)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(menu.CancelledMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsServerLabel(t *testing.T) {
	app, _, _ := newApp(t, true)
	view := app.View()
	assert.Contains(t, view, "BrandsInfo admin")
	assert.Contains(t, view, "staff@127.0.0.1")

	app, _, _ = newApp(t, false)
	assert.NotContains(t, strings.Split(app.View(), "\n")[0], "@")
}
