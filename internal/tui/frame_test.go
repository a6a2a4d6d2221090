// ABOUTME: Tests for the header/footer frame
// ABOUTME: Ensures the frame renders at the terminal width on every screen

package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/listview"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/menu"
)

func TestFrameAlignment(t *testing.T) {
	widths := []int{60, 80, 100, 120}

	for _, targetWidth := range widths {
		t.Run(fmt.Sprintf("width=%d", targetWidth), func(t *testing.T) {
			app := New(context.Background(), nil)
			model, _ := app.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 30})
			app = model.(*App)

			// Frame uses width-1 to prevent wrapping on some terminals,
			// but clamps to a minimum of 80 for usability
			expectedWidth := max(targetWidth-1, 80)

			for _, screen := range []Screen{ScreenLogin, ScreenMenu, ScreenDashboard, ScreenList} {
				app.screen = screen
				app.lastUpdate = time.Now()
				lines := strings.Split(app.View(), "\n")

				header := lines[0]
				footer := lines[len(lines)-1]
				if !strings.HasPrefix(header, "╭") {
					t.Fatalf("screen %d: header not on first line: %q", screen, header)
				}
				if !strings.HasPrefix(footer, "╰") {
					t.Fatalf("screen %d: footer not on last line: %q", screen, footer)
				}
				if w := lipgloss.Width(header); w != expectedWidth {
					t.Errorf("screen %d: header width %d, want %d", screen, w, expectedWidth)
				}
				if w := lipgloss.Width(footer); w != expectedWidth {
					t.Errorf("screen %d: footer width %d, want %d", screen, w, expectedWidth)
				}
			}
		})
	}
}

func TestContentFitsBetweenHeaderAndFooter(t *testing.T) {
	app := New(context.Background(), nil)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	app.screen = ScreenDashboard
	app.Update(dashboardLoadedMsg{data: &client.DashboardData{TotalBusinesses: 5, TotalUsers: 9}})

	lines := strings.Split(app.View(), "\n")
	if len(lines) > 40 {
		t.Errorf("dashboard view is %d lines, taller than the 40 line terminal", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 119 {
			t.Errorf("line %d is %d wide", i, w)
		}
	}
}

func TestListFitsFrame(t *testing.T) {
	app := New(context.Background(), nil)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app.screen = ScreenList
	app.section = menu.SectionIPLogs

	rows := make([][]string, 50)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("10.0.0.%d", i), "3", "/, /search"}
	}
	app.Update(pageLoadedMsg{section: menu.SectionIPLogs, page: listview.Page{
		Title:   "IP logs",
		Columns: []listview.Column{{Title: "IP address", Width: 16}, {Title: "Visits", Width: 7}, {Title: "Paths"}},
		Rows:    rows,
		Number:  1, First: 1, Last: 50, Count: 200,
	}})

	lines := strings.Split(app.View(), "\n")
	if len(lines) > 30 {
		t.Errorf("list view is %d lines, taller than the 30 line terminal", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 99 {
			t.Errorf("line %d is %d wide: %q", i, w, line)
		}
	}
}

func TestFormatTimeSince(t *testing.T) {
	app := New(context.Background(), nil)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{time.Second, "just now"},
		{30 * time.Second, "30s ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
	}
	for _, tc := range tests {
		if got := app.formatTimeSince(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("formatTimeSince(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}
