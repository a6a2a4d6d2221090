// ABOUTME: Sparkline widget for daily signup counts
// ABOUTME: Renders a series as block characters scaled between its min and max

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the block characters from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) into width cells.
// Short series are left-padded with zeros; long ones keep the most recent values.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := fitValues(values, width)
	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = valueToBlock(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

// fitValues pads or trims values to exactly width entries
func fitValues(values []float64, width int) []float64 {
	if len(values) >= width {
		return values[len(values)-width:]
	}
	out := make([]float64, width)
	copy(out[width-len(values):], values)
	return out
}

func valueToBlock(v, lo, hi float64) rune {
	if hi == lo {
		if v == 0 {
			return SparklineBlocks[0]
		}
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(SparklineBlocks)-1))
	return SparklineBlocks[min(max(idx, 0), len(SparklineBlocks)-1)]
}
