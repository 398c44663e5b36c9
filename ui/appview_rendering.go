package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"eqlens/config"
	appmodel "eqlens/model"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Messages) == 0 {
		a.viewport.SetContent("No uploads yet. Press 'o' to pick an equation image.")
		return
	}

	var content strings.Builder

	for _, msg := range a.dataModel.Messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		var roleStyle = DimStyle
		var roleName string
		switch msg.Role {
		case "user":
			roleStyle = UserStyle
			roleName = "You"
		case "bot":
			roleStyle = BotStyle
			roleName = "Tutor"
		default:
			roleStyle = DimStyle
			roleName = "System"
		}

		role := roleStyle.Render(roleName)

		renderedContent := msg.Rendered
		if renderedContent == "" {
			renderedContent = msg.Content
		}

		// The predict loading indicator gets an animated spinner prefix
		if appmodel.IsLoadingIndicator(msg) {
			renderedContent = fmt.Sprintf("%s %s", a.loadingSpinner.View(), msg.Content)
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, renderedContent))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMarkdownAsync runs the typeset pass over one newly appended
// message, addressed by its stable ID. Best effort: a pass that fails
// leaves the raw content in place and a debug log line behind; the user
// never sees the failure and the pass is not retried.
func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.width
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("Typeset pass failed for message %s: %v", messageID, r)
				}
				msg = markdownRenderedMsg{MessageID: messageID, Rendered: content}
			}
		}()

		if width <= 4 {
			return markdownRenderedMsg{MessageID: messageID, Rendered: content}
		}

		// Disable autolink so plain URLs stay plain text and the
		// terminal emulator handles detection
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		return markdownRenderedMsg{
			MessageID: messageID,
			Rendered:  strings.TrimRight(string(rendered), "\n"),
		}
	}
}

// renderNewMessages queues the typeset pass for every message appended
// after fromIndex. Messages already rendered, already queued, or
// carrying a prebuilt raster (image previews) are skipped.
func (a AppView) renderNewMessages(fromIndex int) []tea.Cmd {
	var cmds []tea.Cmd
	for i := fromIndex; i < len(a.dataModel.Messages); i++ {
		msg := a.dataModel.Messages[i]
		if msg.Rendered != "" || appmodel.IsLoadingIndicator(msg) {
			continue
		}
		if _, queued := a.pendingRenders[msg.ID]; queued {
			continue
		}
		a.pendingRenders[msg.ID] = struct{}{}
		cmds = append(cmds, a.renderMarkdownAsync(msg.ID, msg.Content))
	}
	return cmds
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading EQLens..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Acknowledge modal (validation and unexpected errors)
	// 2. Help
	// 3. Image picker
	// 4. History browser
	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.imagePicker.Active {
		return RenderFilePickerModal(a.imagePicker, a.width, a.height)
	}

	if a.showHistory {
		return a.renderHistoryModal(a.width, a.height)
	}

	title := TitleStyle.Render("EQLens") + DimStyle.Render("  image -> equation tutor")
	separator := DimStyle.Render(strings.Repeat("─", a.width))

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		title,
		separator,
		a.viewport.View(),
		separator,
		a.renderStatusBar(),
	)
}

// renderStatusBar shows the orchestrator phase, the Solve control and
// the key hints. The Solve control label flips to a busy indicator for
// exactly as long as one solve request is outstanding.
func (a AppView) renderStatusBar() string {
	var left string
	switch a.dataModel.Phase {
	case appmodel.PhasePreviewing:
		left = a.loadingSpinner.View() + " Predicting..."
	case appmodel.PhaseSolving:
		left = a.loadingSpinner.View() + " " + DimStyle.Render("Solving...")
	default:
		if a.dataModel.CanSolve() {
			left = SelectedStyle.Render("[s] Solve")
		} else {
			left = DimStyle.Render("[o] Open image")
		}
	}

	if a.flashStatus != "" {
		left += "  " + HighlightStyle.Render(a.flashStatus)
	}

	hints := FormatFooter("o", "Open", "s", "Solve", "y", "Copy", "r", "History", "ctrl+t", "Theme", "ctrl+h", "Help", "q", "Quit")

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(hints)
	if gap < 1 {
		return StatusStyle.Render(left)
	}
	return left + strings.Repeat(" ", gap) + hints
}
