package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("EQLens - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	workflow := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Workflow"),
		"• o             Open an equation image",
		"• s / Enter     Solve the previewed equation",
		"• y             Copy last equation to clipboard",
		"• n             Start a new session",
		"• r             Solve history",
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Transcript Navigation"),
		"• j/k           Scroll down/up",
		"• PgDn/PgUp     Page down/up",
		"• g/G           Jump to top/bottom",
	)

	other := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Other"),
		"• Ctrl+T        Toggle dark/light theme",
		"• Ctrl+H        Toggle this help",
		"• q             Quit (saves the session)",
	)

	tips := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Tips"),
		"• Sessions autosave after every predict and solve",
		"• EQLENS_DEBUG=1 writes diagnostics to <data>/debug.log",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		workflow,
		"",
		navigation,
		"",
		other,
		"",
		tips,
	)

	boxed := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 3).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxed)
}
