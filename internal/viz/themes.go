package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color

	// energy bar colors
	Kinetic   lipgloss.Color
	Potential lipgloss.Color
	Thermal   lipgloss.Color
	Total     lipgloss.Color
}

// Available themes
var (
	ThemeLab = Theme{
		Name:      "lab",
		Primary:   lipgloss.Color("#00ccff"),
		Secondary: lipgloss.Color("#ff4466"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0e0e0"),
		Muted:     lipgloss.Color("#777788"),
		Kinetic:   lipgloss.Color("#33cc33"),
		Potential: lipgloss.Color("#3399ff"),
		Thermal:   lipgloss.Color("#ff6600"),
		Total:     lipgloss.Color("#cccccc"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#88ff88"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Kinetic:   lipgloss.Color("#88ff88"),
		Potential: lipgloss.Color("#00cc00"),
		Thermal:   lipgloss.Color("#ffff00"),
		Total:     lipgloss.Color("#00ff00"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"), // Coral
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Kinetic:   lipgloss.Color("#5fd068"),
		Potential: lipgloss.Color("#54a0ff"),
		Thermal:   lipgloss.Color("#ff4757"),
		Total:     lipgloss.Color("#fff5f5"),
	}

	// All available themes
	Themes = []Theme{
		ThemeLab,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ThemeLab.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

// nextTheme returns the theme after t in Themes.
func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeLab
}
