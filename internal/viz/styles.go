package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles derived from a theme.
type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	playing lipgloss.Style
	paused  lipgloss.Style
	graph   lipgloss.Style
	hint    lipgloss.Style
	subtle  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		playing: lipgloss.NewStyle().Bold(true).Foreground(t.Kinetic),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Thermal),
		graph:   lipgloss.NewStyle().Foreground(t.Potential),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		subtle:  lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// Bar renders a horizontal bar filled to fraction of width cells.
func Bar(fraction float64, width int, style lipgloss.Style) string {
	filled := int(fraction*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// GradientText colors each rune of text on a straight line between two
// hex colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))
	lerp := func(a, b int, t float64) int { return a + int(t*float64(b-a)) }

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		color := lipgloss.Color(hexColor(lerp(sr, er, t), lerp(sg, eg, t), lerp(sb, eb, t)))
		result.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(c)))
	}
	return result.String()
}

// Separator is a muted rule with a diamond in the middle.
func (s styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return s.subtle.Render(left + " ◆ " + right)
}

// parseHex reads "#rrggbb"; anything else is white.
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return max(0, min(255, v)) }
	return "#" + hexByte(clamp(r)) + hexByte(clamp(g)) + hexByte(clamp(b))
}

func hexByte(v int) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
