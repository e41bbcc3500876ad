package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from the current theme on every render, so switching
// themes takes effect on the next frame.
type styles struct {
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	done     lipgloss.Style
	active   lipgloss.Style
	pending  lipgloss.Style
	hint     lipgloss.Style
	errorMsg lipgloss.Style
}

func themeStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(46),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		graph:    lipgloss.NewStyle().Foreground(t.Secondary),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		done:     lipgloss.NewStyle().Foreground(t.Success),
		active:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		pending:  lipgloss.NewStyle().Foreground(t.Muted),
		hint:     lipgloss.NewStyle().Foreground(t.Secondary).Italic(true).Width(40),
		errorMsg: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

// ProgressBar renders done out of total as a bar of width cells.
func ProgressBar(done, total, width int, t Theme) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	on := lipgloss.NewStyle().Foreground(t.Success).Render(strings.Repeat("█", filled))
	off := lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
	return on + off
}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		out[i] = chars[max(0, min(idx, len(chars)-1))]
	}
	return string(out)
}

// Separator is a horizontal rule with a centered mark.
func Separator(width int, t Theme) string {
	if width < 8 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-2)
	right := strings.Repeat("─", width-mid-2)
	return lipgloss.NewStyle().Foreground(t.Muted).Render(left + " ◆ " + right)
}
