package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"eqlens/config"
	"eqlens/storage"
)

func (a AppView) handleHistoryMode(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if a.historyFilterMode {
		switch msg.String() {
		case "esc":
			a.historyFilterMode = false
			a.historyFilterInput.SetValue("")
			a.historyFilterInput.Blur()
			a.filteredHistoryList = a.historyList
			return a, tea.Batch(cmds...)
		case "enter":
			a.historyFilterMode = false
			a.historyFilterInput.Blur()
			return a, tea.Batch(cmds...)
		}

		var cmd tea.Cmd
		a.historyFilterInput, cmd = a.historyFilterInput.Update(msg)
		cmds = append(cmds, cmd)

		filterValue := a.historyFilterInput.Value()
		if filterValue == "" {
			a.filteredHistoryList = a.historyList
		} else {
			targets := make([]string, len(a.historyList))
			for i, r := range a.historyList {
				targets[i] = r.Equation
			}

			matches := fuzzy.Find(filterValue, targets)
			a.filteredHistoryList = make([]storage.SolveRecord, len(matches))
			for i, match := range matches {
				a.filteredHistoryList[i] = a.historyList[match.Index]
			}
		}

		if a.selectedHistoryIdx >= len(a.historyEntries()) && len(a.historyEntries()) > 0 {
			a.selectedHistoryIdx = len(a.historyEntries()) - 1
		}

		return a, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "esc", "r", "q":
		a.showHistory = false
		return a, tea.Batch(cmds...)

	case "/":
		a.historyFilterMode = true
		a.historyFilterInput.Focus()
		return a, tea.Batch(cmds...)

	case "j", "down":
		if a.selectedHistoryIdx < len(a.historyEntries())-1 {
			a.selectedHistoryIdx++
		}
		return a, tea.Batch(cmds...)

	case "k", "up":
		if a.selectedHistoryIdx > 0 {
			a.selectedHistoryIdx--
		}
		return a, tea.Batch(cmds...)

	case "y", "enter":
		entries := a.historyEntries()
		if a.selectedHistoryIdx < len(entries) {
			equation := entries[a.selectedHistoryIdx].Equation
			if err := clipboard.WriteAll(equation); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[AppView] Clipboard write failed: %v", err)
				}
			} else {
				a.flashStatus = "Equation copied"
			}
			a.showHistory = false
		}
		return a, tea.Batch(cmds...)

	case "d":
		entries := a.historyEntries()
		if a.selectedHistoryIdx < len(entries) && a.dataModel.History != nil {
			id := entries[a.selectedHistoryIdx].ID
			if err := a.dataModel.History.Delete(id); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[AppView] History delete failed: %v", err)
				}
			}
			cmds = append(cmds, a.dataModel.FetchHistoryCmd(100))
		}
		return a, tea.Batch(cmds...)
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) renderHistoryModal(width, height int) string {
	if width < 30 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Solve History")

	entries := a.historyEntries()

	var lines []string
	if a.historyFilterMode || a.historyFilterInput.Value() != "" {
		lines = append(lines, a.historyFilterInput.View())
	}

	if len(entries) == 0 {
		lines = append(lines, DimStyle.Render("No solved equations yet."))
	}

	maxRows := height - 10
	if maxRows < 3 {
		maxRows = 3
	}

	// Keep the selection visible when the list outgrows the modal
	start := 0
	if a.selectedHistoryIdx >= maxRows {
		start = a.selectedHistoryIdx - maxRows + 1
	}

	for i := start; i < len(entries) && i < start+maxRows; i++ {
		r := entries[i]
		line := fmt.Sprintf("%s  %s  (%d steps)",
			r.SolvedAt.Local().Format("2006-01-02 15:04"),
			truncateToWidth(r.Equation, modalWidth-30),
			r.StepCount,
		)
		if i == a.selectedHistoryIdx {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	body := lipgloss.NewStyle().
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("\n" + strings.Join(lines, "\n") + "\n")

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("j/k", "Navigate", "/", "Filter", "y", "Copy", "d", "Delete", "Esc", "Close"))

	content := strings.Join([]string{title, body, footer}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
