// ABOUTME: User listing, search and creation for the admin console
// ABOUTME: Lists can be filtered to vendors or customers

package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// UserFilter narrows a user listing
type UserFilter string

const (
	FilterAll       UserFilter = "all"
	FilterVendors   UserFilter = "vendors"
	FilterCustomers UserFilter = "customers"
)

// ParseUserFilter accepts all, vendors or customers (singular forms too)
func ParseUserFilter(s string) (UserFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "vendor", "vendors":
		return FilterVendors, nil
	case "customer", "customers":
		return FilterCustomers, nil
	default:
		return "", fmt.Errorf("unknown user filter %q (want all, vendors or customers)", s)
	}
}

func (f UserFilter) query() url.Values {
	switch f {
	case FilterVendors:
		return url.Values{"vendor": {"true"}}
	case FilterCustomers:
		return url.Values{"customer": {"true"}}
	default:
		return nil
	}
}

// User is a registered account
type User struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	MobileNumber string `json:"mobile_number"`
	DateJoined   string `json:"date_joined"`
	IsVendor     bool   `json:"is_vendor"`
	IsCustomer   bool   `json:"is_customer"`
}

// Role describes the account type for display
func (u User) Role() string {
	switch {
	case u.IsVendor && u.IsCustomer:
		return "vendor+customer"
	case u.IsVendor:
		return "vendor"
	case u.IsCustomer:
		return "customer"
	default:
		return "-"
	}
}

// Joined formats the join date as YYYY-MM-DD, falling back to the raw value
func (u User) Joined() string {
	if t, err := time.Parse(time.RFC3339Nano, u.DateJoined); err == nil {
		return t.Format(time.DateOnly)
	}
	return u.DateJoined
}

// UserList is a page of users with account totals
type UserList struct {
	Page[User]
	TotalUsers     int `json:"total_user_count"`
	TotalCustomers int `json:"total_customer_count"`
	TotalVendors   int `json:"total_vendors_count"`
}

// ListUsers fetches the first page of users matching filter
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) (*UserList, error) {
	var list UserList
	if err := c.Get(ctx, "badmin/get_users/", filter.query(), &list); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &list, nil
}

// SearchUsers finds users by name or phone number.
// An empty query is the unfiltered listing.
func (c *Client) SearchUsers(ctx context.Context, q string) (*UserList, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return c.ListUsers(ctx, FilterAll)
	}
	var list UserList
	if err := c.Get(ctx, "users/search_users/", url.Values{"q": {q}}, &list); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return &list, nil
}

// NewUser is the body for creating a user
type NewUser struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DetailResponse is the confirmation body returned by create endpoints
type DetailResponse struct {
	Detail string `json:"detail"`
}

// AddUser creates a user and returns the API's confirmation message
func (c *Client) AddUser(ctx context.Context, u NewUser) (string, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Phone = strings.TrimSpace(u.Phone)
	if u.Name == "" || u.Phone == "" {
		return "", errors.New("name and phone are required")
	}

	var resp DetailResponse
	if err := c.Post(ctx, "badmin/add_user/", u, &resp); err != nil {
		return "", fmt.Errorf("failed to add user: %w", err)
	}
	return resp.Detail, nil
}
