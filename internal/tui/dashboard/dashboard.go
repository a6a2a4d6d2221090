// ABOUTME: Dashboard component rendering the admin analytics overview
// ABOUTME: Metric blocks for totals, share bars for the business mix, plan badges, and signups

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/styles"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui/widgets"
)

// blocks per row before wrapping
const wideLayout = 4

// Dashboard displays directory analytics
type Dashboard struct {
	data   *client.DashboardData
	width  int
	height int
}

// New creates a dashboard for data (nil shows a loading state)
func New(data *client.DashboardData, width, height int) *Dashboard {
	return &Dashboard{
		data:   data,
		width:  width,
		height: height,
	}
}

// Update replaces the analytics shown
func (d *Dashboard) Update(data *client.DashboardData) {
	d.data = data
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.data == nil {
		return styles.Panel.Width(max(d.width, 20)).Render("Loading dashboard...")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Directory overview"))
	sb.WriteString("\n")
	sb.WriteString(d.totalsRow())
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Business mix"))
	sb.WriteString("\n")
	sb.WriteString(d.mixRow())
	sb.WriteString("\n\n")
	sb.WriteString(d.plansLine())
	sb.WriteString("\n")
	sb.WriteString(d.ownersLine())
	sb.WriteString("\n")

	return lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(d.height).
		Render(sb.String())
}

func (d *Dashboard) blockConfig() widgets.MetricBlockConfig {
	cfg := widgets.DefaultMetricBlockConfig()
	// stretch blocks when four fit on a row
	if w := (d.width - (wideLayout - 1)) / wideLayout; w > cfg.Width {
		cfg.Width = w
	}
	return cfg
}

// arrange lays blocks out in rows that fit the width
func (d *Dashboard) arrange(blocks []string, cfg widgets.MetricBlockConfig) string {
	perRow := max(1, (d.width+1)/(cfg.Width+1))
	var rows []string
	for i := 0; i < len(blocks); i += perRow {
		end := min(i+perRow, len(blocks))
		row := make([]string, 0, 2*(end-i))
		for j, b := range blocks[i:end] {
			if j > 0 {
				row = append(row, " ")
			}
			row = append(row, b)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (d *Dashboard) totalsRow() string {
	cfg := d.blockConfig()
	signups := 0
	for _, r := range d.data.SignupRates {
		signups += r.Count
	}
	return d.arrange([]string{
		widgets.CountBlock(icons.Business, "Businesses", d.data.TotalBusinesses, "listed", cfg),
		widgets.CountBlock(icons.Users, "Users", d.data.TotalUsers, "registered", cfg),
		widgets.CountBlock(icons.Product, "Listings", d.data.TotalServices+d.data.TotalProducts,
			fmt.Sprintf("%d services, %d products", d.data.TotalServices, d.data.TotalProducts), cfg),
		widgets.MetricBlockWithSparkline(icons.Signup, "Signups", fmt.Sprintf("%d", signups),
			d.data.SignupCounts(), "businesses this month", cfg),
	}, cfg)
}

func (d *Dashboard) mixRow() string {
	cfg := d.blockConfig()
	return d.arrange([]string{
		widgets.MetricBlockWithBar(icons.Service, "Service", d.data.ServiceBusiness.Count, d.data.ServiceBusiness.Percentage, styles.Primary, cfg),
		widgets.MetricBlockWithBar(icons.Product, "Product", d.data.ProductBusiness.Count, d.data.ProductBusiness.Percentage, styles.Info, cfg),
		widgets.MetricBlockWithBar(icons.Business, "Hybrid", d.data.HybridBusiness.Count, d.data.HybridBusiness.Percentage, styles.Secondary, cfg),
	}, cfg)
}

// Coverage is the share of businesses on any paid plan
func Coverage(data *client.DashboardData) float64 {
	total := data.Subscribers() + data.NoPlan
	if total == 0 {
		return 0
	}
	return float64(data.Subscribers()) * 100 / float64(total)
}

func (d *Dashboard) plansLine() string {
	badges := []string{
		widgets.PlanBadge("Tier 1", d.data.Tier1Subscribers),
		widgets.PlanBadge("Tier 2", d.data.Tier2Subscribers),
		widgets.PlanBadge("Tier 3", d.data.Tier3Subscribers),
		widgets.PlanBadge("No plan", d.data.NoPlan),
	}
	coverage := Coverage(d.data)
	bar := widgets.DefaultProgressBarConfig()
	bar.Width = 16
	return fmt.Sprintf("%s Plans  %s\n        %s %s",
		icons.Plan.String(),
		strings.Join(badges, " "),
		widgets.ProgressBarWithLabel(coverage, bar),
		widgets.StatusText("subscribed", widgets.CoverageLevel(coverage)))
}

func (d *Dashboard) ownersLine() string {
	u := d.data.Users
	return fmt.Sprintf("%s Owners %d with a business (%.1f%%), %d without (%.1f%%)",
		icons.Users.String(),
		u.WithBusiness, u.WithBusinessPercentage,
		u.WithoutBusiness, u.WithoutBusinessPercentage)
}
