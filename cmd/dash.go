// ABOUTME: Dash command for bi-admin
// ABOUTME: Shows directory totals, business mix, plan subscriptions and signups

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"dashboard"},
	Short:   "Show the admin dashboard",
	Long:    `Display directory totals, the business type mix, plan subscriptions, user distribution, and daily business signups.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runDash(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

// runDash fetches the dashboard and returns exit code
func runDash(ctx context.Context, w io.Writer) int {
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	d, err := c.Dashboard(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(d))
	} else {
		fmt.Fprintln(w, formatDashHuman(d))
	}
	return 0
}

// formatDashHuman formats the dashboard for human readability
func formatDashHuman(d *client.DashboardData) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	p.Fprintf(&b, `Businesses:     %d
Users:          %d
Services:       %d
Products:       %d

`, d.TotalBusinesses, d.TotalUsers, d.TotalServices, d.TotalProducts)

	mix := newTable("Business type", "Count", "Share")
	mix.AppendRow([]any{"Service", d.ServiceBusiness.Count, percent(d.ServiceBusiness.Percentage)})
	mix.AppendRow([]any{"Product", d.ProductBusiness.Count, percent(d.ProductBusiness.Percentage)})
	mix.AppendRow([]any{"Hybrid", d.HybridBusiness.Count, percent(d.HybridBusiness.Percentage)})
	b.WriteString(mix.Render())
	b.WriteString("\n\n")

	p.Fprintf(&b, `Plans:          tier 1 %d, tier 2 %d, tier 3 %d, no plan %d [%s]
Owners:         %d with a business (%s), %d without (%s)
`,
		d.Tier1Subscribers, d.Tier2Subscribers, d.Tier3Subscribers, d.NoPlan,
		planCoverage(d),
		d.Users.WithBusiness, percent(d.Users.WithBusinessPercentage),
		d.Users.WithoutBusiness, percent(d.Users.WithoutBusinessPercentage))

	if len(d.SignupRates) > 0 {
		fmt.Fprintf(&b, "Signups:        %s", signupSummary(d.SignupRates))
	}
	return strings.TrimRight(b.String(), "\n")
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// planCoverage labels the share of businesses on a paid plan
func planCoverage(d *client.DashboardData) string {
	total := d.Subscribers() + d.NoPlan
	if total == 0 {
		return "no businesses"
	}
	return fmt.Sprintf("%.0f%% subscribed", float64(d.Subscribers())*100/float64(total))
}

// signupSummary lists signups per day of the month
func signupSummary(rates []client.SignupRate) string {
	parts := make([]string, 0, len(rates))
	total := 0
	for _, r := range rates {
		parts = append(parts, fmt.Sprintf("%d:%d", r.Day, r.Count))
		total += r.Count
	}
	return fmt.Sprintf("%d this month (day:count %s)", total, strings.Join(parts, " "))
}
