package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is one named color palette. Ctrl+T cycles between the two
// built-in themes at runtime; the choice is persisted to config.
type Theme struct {
	Name      string
	Dim       lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Danger    lipgloss.Color
	Highlight lipgloss.Color
}

var DarkTheme = Theme{
	Name:      "dark",
	Dim:       lipgloss.Color("7"),
	Accent:    lipgloss.Color("12"),
	Success:   lipgloss.Color("10"),
	Warning:   lipgloss.Color("11"),
	Danger:    lipgloss.Color("9"),
	Highlight: lipgloss.Color("13"),
}

var LightTheme = Theme{
	Name:      "light",
	Dim:       lipgloss.Color("8"),
	Accent:    lipgloss.Color("4"),
	Success:   lipgloss.Color("2"),
	Warning:   lipgloss.Color("3"),
	Danger:    lipgloss.Color("1"),
	Highlight: lipgloss.Color("5"),
}

// Package-level colors and styles, rebuilt by ApplyTheme. The UI runs
// on one goroutine, so plain reassignment is safe.
var (
	dimColor       = DarkTheme.Dim
	accentColor    = DarkTheme.Accent
	successColor   = DarkTheme.Success
	warningColor   = DarkTheme.Warning
	dangerColor    = DarkTheme.Danger
	highlightColor = DarkTheme.Highlight

	// User message style
	UserStyle lipgloss.Style

	// Tutor (bot) message style
	BotStyle lipgloss.Style

	// System/timestamp style
	DimStyle lipgloss.Style

	// Title style
	TitleStyle lipgloss.Style

	// Status bar style
	StatusStyle lipgloss.Style

	SelectedStyle lipgloss.Style

	HelpStyle lipgloss.Style

	HighlightStyle lipgloss.Style
)

func init() {
	ApplyTheme(DarkTheme)
}

// ThemeByName resolves a configured theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if strings.EqualFold(name, "light") {
		return LightTheme
	}
	return DarkTheme
}

// ApplyTheme rebuilds the package styles from a palette.
func ApplyTheme(t Theme) {
	dimColor = t.Dim
	accentColor = t.Accent
	successColor = t.Success
	warningColor = t.Warning
	dangerColor = t.Danger
	highlightColor = t.Highlight

	UserStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	// NO .Background() = transparent!

	BotStyle = lipgloss.NewStyle().
		Foreground(accentColor)

	DimStyle = lipgloss.NewStyle().
		Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
		Bold(true)

	StatusStyle = lipgloss.NewStyle().
		Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(warningColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
