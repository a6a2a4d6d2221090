// ABOUTME: Compact metric block widget for the analytics dashboard
// ABOUTME: Draws a titled box with a value plus an optional share bar or signup sparkline

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/NikhilRakesh/Bi-Admin/internal/tui/icons"
)

const defaultBlockWidth = 24

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns the dashboard defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       defaultBlockWidth,
		BorderColor: lipgloss.Color("#6B7280"),
		TitleColor:  lipgloss.Color("#F97316"),
		ValueColor:  lipgloss.Color("#F9FAFB"),
	}
}

// block assembles the bordered box around pre-rendered body lines
func block(icon icons.Icon, title string, body []string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = defaultBlockWidth
	}
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	// ┌─ title ───┐ is exactly config.Width cells wide
	fill := max(0, config.Width-5-lipgloss.Width(titleStr))
	lines := []string{
		borderStyle.Render("┌─ ") + titleStyle.Render(titleStr) + borderStyle.Render(" "+strings.Repeat("─", fill)+"┐"),
	}
	for _, line := range body {
		pad := max(0, innerWidth-lipgloss.Width(line))
		lines = append(lines, borderStyle.Render("│  ")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	lines = append(lines, borderStyle.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))
	return strings.Join(lines, "\n")
}

// MetricBlock renders a value with a muted caption
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = defaultBlockWidth
	}
	innerWidth := config.Width - 4
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return block(icon, title, []string{
		valueStyle.Render(truncate(value, innerWidth)),
		subtitleStyle.Render(truncate(subtitle, innerWidth)),
	}, config)
}

// MetricBlockWithBar renders a count with its share of the whole as a bar
func MetricBlockWithBar(icon icons.Icon, title string, count int, percent float64, color lipgloss.Color, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = defaultBlockWidth
	}
	innerWidth := config.Width - 4
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	shareStyle := lipgloss.NewStyle().Foreground(color)

	return block(icon, title, []string{
		valueStyle.Render(fmt.Sprintf("%d", count)) + "  " + shareStyle.Render(fmt.Sprintf("%.1f%%", percent)),
		CompactProgressBar(percent, innerWidth, color),
	}, config)
}

// MetricBlockWithSparkline renders a value next to a trend line
func MetricBlockWithSparkline(icon icons.Icon, title, value string, sparkData []float64, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = defaultBlockWidth
	}
	innerWidth := config.Width - 4
	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	sparkWidth := max(4, innerWidth-lipgloss.Width(value)-2)
	spark := Sparkline(sparkData, sparkWidth, config.TitleColor)

	return block(icon, title, []string{
		valueStyle.Render(value) + "  " + spark,
		subtitleStyle.Render(truncate(subtitle, innerWidth)),
	}, config)
}

// CountBlock renders a plain count metric
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, fmt.Sprintf("%d", count), label, config)
}

// truncate shortens s to maxLen cells with an ellipsis
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(maxLen, len(r))])
	}
	for lipgloss.Width(string(r)) > maxLen-3 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
