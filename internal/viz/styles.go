package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from a theme.
type Styles struct {
	Canvas      lipgloss.Style
	Panel       lipgloss.Style
	Header      lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Active      lipgloss.Style
	Equation    lipgloss.Style
	Graph       lipgloss.Style
	Help        lipgloss.Style
	Running     lipgloss.Style
	Paused      lipgloss.Style
	Recording   lipgloss.Style
	Warning     lipgloss.Style
	Overlay     lipgloss.Style
	Separator   lipgloss.Style
	KeyHint     lipgloss.Style
	ActiveGlyph string
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(44),
		Header:    lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:     lipgloss.NewStyle().Foreground(t.Text),
		Active:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Equation:  lipgloss.NewStyle().Foreground(t.Accent),
		Graph:     lipgloss.NewStyle().Foreground(t.Secondary),
		Help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Running:   lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Recording: lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		Warning:   lipgloss.NewStyle().Foreground(t.Warning),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Secondary).
			Padding(1, 2),
		Separator:   lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		ActiveGlyph: "▸ ",
	}
}

func (s Styles) Rule(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return s.Separator.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
