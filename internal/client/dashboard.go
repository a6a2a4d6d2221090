// ABOUTME: Admin dashboard analytics and IP visit logs
// ABOUTME: Types mirror the badmin/dash and analytics endpoints

package client

import (
	"context"
	"fmt"
)

// Share is a count with its percentage of the total
type Share struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SignupRate is the number of businesses created on a day of the month
type SignupRate struct {
	Day   int `json:"created_on__day"`
	Count int `json:"count"`
}

// UserDistribution splits users by whether they own a business
type UserDistribution struct {
	WithBusiness              int     `json:"with_buisness"`
	WithBusinessPercentage    float64 `json:"with_buisness_percentage"`
	WithoutBusiness           int     `json:"without_buisness"`
	WithoutBusinessPercentage float64 `json:"without_buisness_percentage"`
}

// DashboardData is the admin overview
type DashboardData struct {
	TotalBusinesses  int              `json:"total_buisnesses"`
	TotalUsers       int              `json:"total_users"`
	TotalServices    int              `json:"total_services"`
	TotalProducts    int              `json:"total_products"`
	ServiceBusiness  Share            `json:"service_bs"`
	ProductBusiness  Share            `json:"product_bs"`
	HybridBusiness   Share            `json:"hybrid_bs"`
	Tier1Subscribers int              `json:"tier_1_subs"`
	Tier2Subscribers int              `json:"tier_2_subs"`
	Tier3Subscribers int              `json:"tier_3_subs"`
	NoPlan           int              `json:"no_plan"`
	Users            UserDistribution `json:"user_distribution"`
	SignupRates      []SignupRate     `json:"buisness_signup_rates"`
}

// Subscribers returns the total number of businesses on a paid plan
func (d DashboardData) Subscribers() int {
	return d.Tier1Subscribers + d.Tier2Subscribers + d.Tier3Subscribers
}

// SignupCounts returns the signup counts in day order for charting
func (d DashboardData) SignupCounts() []float64 {
	out := make([]float64, len(d.SignupRates))
	for i, r := range d.SignupRates {
		out[i] = float64(r.Count)
	}
	return out
}

type dashboardResponse struct {
	Data DashboardData `json:"data"`
}

// Dashboard fetches the admin overview
func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	var resp dashboardResponse
	if err := c.Get(ctx, "badmin/dash/", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &resp.Data, nil
}

// IPLogEntry is the visit record of one client address
type IPLogEntry struct {
	IPAddress    string   `json:"ip_address"`
	VisitCount   int      `json:"visit_count"`
	VisitedPaths []string `json:"visited_paths"`
}

// IPLogPage is one page of IP logs
type IPLogPage = Page[IPLogEntry]

// IPLogs fetches the first page of visitor IP logs
func (c *Client) IPLogs(ctx context.Context) (*IPLogPage, error) {
	var page IPLogPage
	if err := c.Get(ctx, "analytics/get_ip_logs/", nil, &page); err != nil {
		return nil, fmt.Errorf("failed to load IP logs: %w", err)
	}
	return &page, nil
}
