package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the compartments and chrome of the terminal views.
type Theme struct {
	Name        string
	Title       lipgloss.Color
	Susceptible lipgloss.Color
	Infected    lipgloss.Color
	Recovered   lipgloss.Color
	Muted       lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Title:       lipgloss.Color("#00ffff"),
		Susceptible: lipgloss.Color("#00aaff"),
		Infected:    lipgloss.Color("#ff5555"),
		Recovered:   lipgloss.Color("#55ff55"),
		Muted:       lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Title:       lipgloss.Color("#00ff00"),
		Susceptible: lipgloss.Color("#88ff88"),
		Infected:    lipgloss.Color("#ffff00"),
		Recovered:   lipgloss.Color("#00cc00"),
		Muted:       lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Title:       lipgloss.Color("#ffffff"),
		Susceptible: lipgloss.Color("#cccccc"),
		Infected:    lipgloss.Color("#0088ff"),
		Recovered:   lipgloss.Color("#888888"),
		Muted:       lipgloss.Color("#555555"),
	}
)

var themes = map[string]Theme{
	ThemeClassic.Name:    ThemeClassic,
	ThemeRetroGreen.Name: ThemeRetroGreen,
	ThemeMinimal.Name:    ThemeMinimal,
}

// CurrentTheme is the active theme.
var CurrentTheme = ThemeClassic

// SetTheme switches themes by name. Unknown names are ignored.
func SetTheme(name string) bool {
	t, ok := themes[name]
	if ok {
		CurrentTheme = t
	}
	return ok
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextTheme returns the theme after current in name order.
func NextTheme(current string) string {
	names := ThemeNames()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
