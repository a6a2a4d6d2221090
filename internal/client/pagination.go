// ABOUTME: Paginated list envelope shared by the admin list endpoints
// ABOUTME: Page links come back absolute and are rebased onto the configured API URL

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoPage is returned when following a page link that is not present
var ErrNoPage = errors.New("no such page")

// Links holds the next/previous page URLs; empty when absent
type Links struct {
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Page is the list envelope used by the API
type Page[T any] struct {
	Count    int   `json:"count"`
	PageSize int   `json:"page_size"`
	Links    Links `json:"links"`
	Results  []T   `json:"results"`
}

// HasNext reports whether a following page exists
func (p Page[T]) HasNext() bool {
	return p.Links.Next != ""
}

// HasPrev reports whether a preceding page exists
func (p Page[T]) HasPrev() bool {
	return p.Links.Previous != ""
}

// Range returns the 1-based item range shown by page number n
func (p Page[T]) Range(n int) (first, last int) {
	if p.Count == 0 || n < 1 {
		return 0, 0
	}
	size := p.PageSize
	if size <= 0 {
		size = len(p.Results)
	}
	first = (n-1)*size + 1
	last = first + len(p.Results) - 1
	if last > p.Count {
		last = p.Count
	}
	return first, last
}

// Follow fetches the page at link and decodes it into out.
// An empty link yields ErrNoPage.
func (c *Client) Follow(ctx context.Context, link string, out any) error {
	if link == "" {
		return ErrNoPage
	}
	path, err := c.rebase(link)
	if err != nil {
		return err
	}
	return c.Do(ctx, NewRequest(http.MethodGet, path), out)
}

// rebase turns an absolute page link into a path relative to the base URL.
// The API reports links on its public host even when reached through another
// address, so only the path and query are kept.
func (c *Client) rebase(link string) (string, error) {
	if rest, ok := strings.CutPrefix(link, c.baseURL+"/"); ok {
		return rest, nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid page link %q: %w", link, err)
	}
	if !u.IsAbs() {
		return strings.TrimLeft(link, "/"), nil
	}

	rel := strings.TrimLeft(u.EscapedPath(), "/")
	if base, err := url.Parse(c.baseURL); err == nil {
		prefix := strings.Trim(base.EscapedPath(), "/")
		if prefix != "" {
			rel = strings.TrimPrefix(rel, prefix+"/")
		}
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	return rel, nil
}

// Collect returns the results of first plus every following page, stopping
// after limit items when limit > 0.
func Collect[T any](ctx context.Context, c *Client, first Page[T], limit int) ([]T, error) {
	items := append([]T(nil), first.Results...)
	next := first.Links.Next
	for next != "" && (limit <= 0 || len(items) < limit) {
		var page Page[T]
		if err := c.Follow(ctx, next, &page); err != nil {
			return items, err
		}
		items = append(items, page.Results...)
		next = page.Links.Next
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
