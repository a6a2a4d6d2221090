// ABOUTME: Progress bar widgets for shares and subscription coverage
// ABOUTME: Threshold bars color the filled part by zone; compact bars use one color

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for a zoned progress bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // below this the bar is critical
	OKThreshold   float64 // at or above this the bar is ok
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultProgressBarConfig grades plan coverage: under 20% is critical,
// 50% and up is healthy.
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: 20,
		OKThreshold:   50,
		OKColor:       lipgloss.Color("#10B981"),
		WarnColor:     lipgloss.Color("#F59E0B"),
		CritColor:     lipgloss.Color("#EF4444"),
		EmptyColor:    lipgloss.Color("#374151"),
	}
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}

// color picks the fill color for percent. Higher coverage is better.
func (c ProgressBarConfig) color(percent float64) lipgloss.Color {
	switch {
	case percent >= c.OKThreshold:
		return c.OKColor
	case percent >= c.WarnThreshold:
		return c.WarnColor
	default:
		return c.CritColor
	}
}

// ProgressBar renders a bracketed bar filled in the zone color
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = clampPercent(percent)
	filled := int(percent / 100.0 * float64(config.Width))

	fill := lipgloss.NewStyle().Foreground(config.color(percent))
	empty := lipgloss.NewStyle().Foreground(config.EmptyColor)

	return "[" + fill.Render(strings.Repeat("█", filled)) +
		empty.Render(strings.Repeat("░", config.Width-filled)) + "]"
}

// ProgressBarWithLabel renders the bar followed by the percentage
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	label := lipgloss.NewStyle().
		Foreground(config.color(clampPercent(percent))).
		Render(fmt.Sprintf("%3.0f%%", percent))
	return ProgressBar(percent, config) + " " + label
}

// CompactProgressBar renders an unbracketed single-color bar
func CompactProgressBar(percent float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	filled := int(clampPercent(percent) / 100.0 * float64(width))

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", width-filled))
}
