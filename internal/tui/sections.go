// ABOUTME: Page loaders for the list sections of the TUI
// ABOUTME: Fetches users, categories, and IP logs and shapes them into list view pages

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/listview"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/menu"
)

// pageLoader fetches page number n of a section. An empty link means the
// first page; otherwise link is a next/previous link from the last page.
type pageLoader func(ctx context.Context, c *client.Client, link string, n int) (listview.Page, error)

func loaderFor(section menu.Section) (pageLoader, bool) {
	switch section {
	case menu.SectionUsers:
		return loadUsers, true
	case menu.SectionCategories:
		return categoryLoader(client.KindBusiness), true
	case menu.SectionProductCategories:
		return categoryLoader(client.KindProduct), true
	case menu.SectionIPLogs:
		return loadIPLogs, true
	default:
		return nil, false
	}
}

// pageFrame copies the pagination fields shared by every section
func pageFrame[T any](p client.Page[T], n int) listview.Page {
	first, last := p.Range(n)
	return listview.Page{
		Number: n,
		First:  first,
		Last:   last,
		Count:  p.Count,
		Next:   p.Links.Next,
		Prev:   p.Links.Previous,
	}
}

func loadUsers(ctx context.Context, c *client.Client, link string, n int) (listview.Page, error) {
	list := &client.UserList{}
	var err error
	if link == "" {
		list, err = c.ListUsers(ctx, client.FilterAll)
	} else {
		err = c.Follow(ctx, link, list)
	}
	if err != nil {
		return listview.Page{}, err
	}
	return usersPage(list, n), nil
}

func usersPage(list *client.UserList, n int) listview.Page {
	page := pageFrame(list.Page, n)
	page.Title = "Users"
	page.Summary = fmt.Sprintf("%d total, %d vendors, %d customers", list.TotalUsers, list.TotalVendors, list.TotalCustomers)
	page.Columns = []listview.Column{
		{Title: "ID", Width: 7},
		{Title: "Name"},
		{Title: "Mobile", Width: 12},
		{Title: "Role", Width: 16},
		{Title: "Joined", Width: 10},
	}
	for _, u := range list.Results {
		page.Rows = append(page.Rows, []string{strconv.Itoa(u.ID), u.FirstName, orDash(u.MobileNumber), u.Role(), u.Joined()})
	}
	return page
}

func categoryLoader(kind client.CategoryKind) pageLoader {
	return func(ctx context.Context, c *client.Client, link string, n int) (listview.Page, error) {
		list := &client.CategoryList{}
		var err error
		if link == "" {
			list, err = c.ListCategories(ctx, kind)
		} else {
			err = c.Follow(ctx, link, list)
		}
		if err != nil {
			return listview.Page{}, err
		}
		return categoriesPage(kind, list, n), nil
	}
}

func categoriesPage(kind client.CategoryKind, list *client.CategoryList, n int) listview.Page {
	page := pageFrame(list.Page, n)
	page.Title = "Categories"
	if kind == client.KindProduct {
		page.Title = "Product categories"
	}
	page.Summary = fmt.Sprintf("%d main, %d sub", list.TotalMain, list.TotalSub)
	page.Columns = []listview.Column{
		{Title: "ID", Width: 7},
		{Title: "Name"},
		{Title: "Sub categories", Width: 14},
	}
	for _, cat := range list.Results {
		page.Rows = append(page.Rows, []string{strconv.Itoa(cat.ID), cat.Name, strconv.Itoa(cat.SubCount)})
	}
	return page
}

func loadIPLogs(ctx context.Context, c *client.Client, link string, n int) (listview.Page, error) {
	logs := &client.IPLogPage{}
	var err error
	if link == "" {
		logs, err = c.IPLogs(ctx)
	} else {
		err = c.Follow(ctx, link, logs)
	}
	if err != nil {
		return listview.Page{}, err
	}
	return ipLogsPage(logs, n), nil
}

func ipLogsPage(logs *client.IPLogPage, n int) listview.Page {
	page := pageFrame(*logs, n)
	page.Title = "IP logs"
	page.Columns = []listview.Column{
		{Title: "IP address", Width: 16},
		{Title: "Visits", Width: 7},
		{Title: "Paths"},
	}
	for _, e := range logs.Results {
		page.Rows = append(page.Rows, []string{e.IPAddress, strconv.Itoa(e.VisitCount), joinPaths(e.VisitedPaths, 3)})
	}
	return page
}

// joinPaths puts the first k paths on one line
func joinPaths(paths []string, k int) string {
	if len(paths) == 0 {
		return "-"
	}
	if len(paths) <= k {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(paths[:k], ", "), len(paths)-k)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
