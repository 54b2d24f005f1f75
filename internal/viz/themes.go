package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Theme defines the color scheme for the TUI: panel colors plus one color
// per scene layer for the orbit canvas.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Star  lipgloss.Color
	Sun   lipgloss.Color
	Trail lipgloss.Color
	Body  lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("#ffa500"),
		Secondary: lipgloss.Color("#0096ff"),
		Accent:    lipgloss.Color("#ffc800"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#808080"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
		Star:      lipgloss.Color("#ffffff"),
		Sun:       lipgloss.Color("#ffa500"),
		Trail:     lipgloss.Color("#808080"),
		Body:      lipgloss.Color("#3f6fff"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
		Star:      lipgloss.Color("#8888ff"),
		Sun:       lipgloss.Color("#ffff00"),
		Trail:     lipgloss.Color("#ff00ff"),
		Body:      lipgloss.Color("#00ffff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Star:      lipgloss.Color("#005500"),
		Sun:       lipgloss.Color("#88ff88"),
		Trail:     lipgloss.Color("#00aa00"),
		Body:      lipgloss.Color("#00ff00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		Star:      lipgloss.Color("#4488aa"),
		Sun:       lipgloss.Color("#ffd700"),
		Trail:     lipgloss.Color("#00a8cc"),
		Body:      lipgloss.Color("#e0f0ff"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
		Star:      lipgloss.Color("#8b6b8c"),
		Sun:       lipgloss.Color("#feca57"),
		Trail:     lipgloss.Color("#ff9ff3"),
		Body:      lipgloss.Color("#ff6b6b"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// LayerStyle colors canvas cells by the layer that drew them.
func (t Theme) LayerStyle(l scene.Layer) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch l {
	case scene.LayerStars:
		return s.Foreground(t.Star)
	case scene.LayerSun:
		return s.Foreground(t.Sun).Bold(true)
	case scene.LayerTrail:
		return s.Foreground(t.Trail)
	case scene.LayerBody:
		return s.Foreground(t.Body).Bold(true)
	}
	return s.Foreground(t.Muted)
}
