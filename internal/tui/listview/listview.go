// ABOUTME: Paginated list view for users, categories, and IP logs
// ABOUTME: Wraps a bubbles table and shows the page position and link availability

package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/styles"
)

// Column is a table column; Width 0 shares the remaining space
type Column struct {
	Title string
	Width int
}

// Page is one page of rows ready for display
type Page struct {
	Title   string
	Summary string
	Columns []Column
	Rows    [][]string

	Number int // 1-based page number
	First  int // item number of the first row
	Last   int
	Count  int
	Next   string
	Prev   string
}

// HasNext reports whether a following page link exists
func (p Page) HasNext() bool { return p.Next != "" }

// HasPrev reports whether a preceding page link exists
func (p Page) HasPrev() bool { return p.Prev != "" }

// View shows one page in a table
type View struct {
	page   Page
	table  table.Model
	width  int
	height int
}

// chrome is the number of lines around the table (title, summary, position)
const chrome = 5

// New creates a list view sized to width x height
func New(page Page, width, height int) *View {
	v := &View{width: width, height: height}
	v.table = table.New(table.WithFocused(true))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = styles.Selected
	v.table.SetStyles(s)

	v.SetPage(page)
	return v
}

// SetPage replaces the rows shown and moves the cursor to the top
func (v *View) SetPage(page Page) {
	v.page = page

	// columns must be set before rows so row widths match
	v.table.SetRows(nil)
	v.table.SetColumns(v.columns())
	rows := make([]table.Row, len(page.Rows))
	for i, r := range page.Rows {
		rows[i] = table.Row(r)
	}
	v.table.SetRows(rows)
	v.table.GotoTop()
	v.resize()
}

// SetSize updates the view dimensions
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetColumns(v.columns())
	v.resize()
}

func (v *View) resize() {
	v.table.SetWidth(v.width)
	v.table.SetHeight(max(3, v.height-chrome))
}

// columns spreads the unsized columns over the width left by sized ones
func (v *View) columns() []table.Column {
	fixed, flexible := 0, 0
	for _, c := range v.page.Columns {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flexible++
		}
	}
	// each column renders with one cell of padding on both sides
	spare := v.width - fixed - 2*len(v.page.Columns)
	share := 10
	if flexible > 0 && spare/flexible > share {
		share = spare / flexible
	}

	cols := make([]table.Column, len(v.page.Columns))
	for i, c := range v.page.Columns {
		w := c.Width
		if w == 0 {
			w = share
		}
		cols[i] = table.Column{Title: c.Title, Width: w}
	}
	return cols
}

// Update forwards navigation keys to the table
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// Page returns the page shown
func (v *View) Page() Page {
	return v.page
}

// SelectedRow returns the row under the cursor, or nil for an empty page
func (v *View) SelectedRow() []string {
	row := v.table.SelectedRow()
	if row == nil {
		return nil
	}
	return []string(row)
}

// Position describes where the page sits in the whole list
func (v *View) Position() string {
	p := v.page
	if p.Count == 0 || len(p.Rows) == 0 {
		return "No results"
	}
	return fmt.Sprintf("Page %d, showing %d-%d of %d", p.Number, p.First, p.Last, p.Count)
}

// View renders the list
func (v *View) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(v.page.Title))
	sb.WriteString("\n")
	if v.page.Summary != "" {
		sb.WriteString(styles.Subtitle.Render(v.page.Summary))
		sb.WriteString("\n")
	}

	if len(v.page.Rows) == 0 {
		sb.WriteString(styles.Subtitle.Render("Nothing to show."))
		return sb.String()
	}
	sb.WriteString(v.table.View())
	sb.WriteString("\n")

	var nav []string
	if v.page.HasPrev() {
		nav = append(nav, icons.Back.String()+" p previous")
	}
	if v.page.HasNext() {
		nav = append(nav, "n next "+icons.Next.String())
	}
	line := v.Position()
	if len(nav) > 0 {
		line += "  " + strings.Join(nav, "  ")
	}
	sb.WriteString(styles.Help.Render(line))
	return sb.String()
}
