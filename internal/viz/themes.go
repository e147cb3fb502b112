package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette the live view draws with.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Label     lipgloss.Color
	Border    lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeTelemetry = Theme{
		Name:      "telemetry",
		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#ff00ff"),
		Label:     lipgloss.Color("#888899"),
		Border:    lipgloss.Color("#444466"),
		Muted:     lipgloss.Color("#666688"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRegolith = Theme{
		Name:      "regolith",
		Primary:   lipgloss.Color("#e07a3f"),
		Secondary: lipgloss.Color("#f2d0a4"),
		Label:     lipgloss.Color("#a08070"),
		Border:    lipgloss.Color("#6b4a3a"),
		Muted:     lipgloss.Color("#7a6055"),
		Success:   lipgloss.Color("#9bd66b"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#88ff88"),
		Label:     lipgloss.Color("#00aa00"),
		Border:    lipgloss.Color("#005500"),
		Muted:     lipgloss.Color("#007700"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#aaaaaa"),
		Label:     lipgloss.Color("#888888"),
		Border:    lipgloss.Color("#555555"),
		Muted:     lipgloss.Color("#777777"),
		Success:   lipgloss.Color("#dddddd"),
		Warning:   lipgloss.Color("#bbbbbb"),
		Error:     lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeTelemetry

	Themes = []Theme{ThemeTelemetry, ThemeRegolith, ThemePhosphor, ThemeMono}
)

func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// SetTheme switches palettes and restyles. Unknown names are ignored.
func SetTheme(name string) bool {
	t, ok := GetTheme(name)
	if ok {
		CurrentTheme = t
		applyTheme(t)
	}
	return ok
}

// NextTheme cycles to the theme after the current one.
func NextTheme() string {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			next := Themes[(i+1)%len(Themes)]
			SetTheme(next.Name)
			return next.Name
		}
	}
	SetTheme(Themes[0].Name)
	return Themes[0].Name
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
