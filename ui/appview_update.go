package ui

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"eqlens/config"
	appmodel "eqlens/model"
	"eqlens/upload"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST to handle TickMsg before anything else
	if a.dataModel.Phase == appmodel.PhasePreviewing || a.dataModel.Phase == appmodel.PhaseSolving {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		// Refresh viewport so the animated spinner moves
		a.updateViewportContent(false)
	}

	// Update file picker if active (needs to receive ALL message types
	// EXCEPT KeyMsg - KeyMsg goes through handleImagePickerMode so the
	// selection check runs right after the picker saw the key)
	if a.imagePicker.Active {
		switch msg.(type) {
		case tea.KeyMsg:
			// Handled in handleImagePickerMode
		default:
			a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title, separator x2 and status bar
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 4

		a.ready = true
		a.updateViewportContent(true)

		// Render messages restored from the last session once the
		// terminal width is known
		if a.dataModel.NeedsInitialRender {
			a.dataModel.NeedsInitialRender = false
			cmds = append(cmds, a.renderNewMessages(0)...)
		}

		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)

	case uploadAcceptedMsg:
		a.dataModel.BeginUpload(msg.Attachment)
		a.updateViewportContent(true)
		cmds = append(cmds,
			a.dataModel.PredictCmd(),
			a.loadPreviewCmd(msg.Attachment),
			a.loadingSpinner.Tick,
		)
		cmds = append(cmds, a.renderNewMessages(0)...)
		return a, tea.Batch(cmds...)

	case uploadRejectedMsg:
		a.showAcknowledgeModal = true
		a.acknowledgeModalType = ModalTypeWarning
		switch {
		case errors.Is(msg.Err, upload.ErrInvalidType):
			a.acknowledgeModalTitle = "Not An Image"
			a.acknowledgeModalMsg = fmt.Sprintf("%s\n\nOnly image files (image/*) can be uploaded.", msg.Path)
		case errors.Is(msg.Err, upload.ErrTooLarge):
			a.acknowledgeModalTitle = "File Too Large"
			a.acknowledgeModalMsg = fmt.Sprintf("%s\n\nThe upload limit is %d MiB.", msg.Path, a.dataModel.Config.MaxUploadBytes/(1024*1024))
		default:
			a.acknowledgeModalTitle = "Upload Failed"
			a.acknowledgeModalMsg = msg.Err.Error()
		}
		return a, tea.Batch(cmds...)

	case previewReadyMsg:
		if a.dataModel.Upload == nil || a.dataModel.Upload.ID != msg.UploadID {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[AppView] Discarding stale preview for upload %s", msg.UploadID)
			}
			return a, tea.Batch(cmds...)
		}

		// The data URL is published regardless of the raster outcome:
		// an accepted image the rasterizer cannot decode (webp, bmp)
		// still gets its preview state. Only the transcript raster
		// depends on the decode.
		a.dataModel.PreviewDataURL = msg.DataURL

		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[AppView] Preview decode failed for %s: %v", msg.UploadID, msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		if msg.ANSI != "" {
			a.dataModel.AppendMessage(Message{
				Role:     "user",
				Content:  "[image preview]",
				Rendered: msg.ANSI,
				Preview:  true,
			})
			a.updateViewportContent(true)
		}
		return a, tea.Batch(cmds...)

	case predictResultMsg:
		if a.dataModel.ApplyPredictOutcome(msg.UploadID, msg.Resp, msg.Err) {
			a.updateViewportContent(true)
			cmds = append(cmds, a.renderNewMessages(0)...)
			cmds = append(cmds, a.dataModel.SaveCurrentSessionCmd())
		}
		return a, tea.Batch(cmds...)

	case solveResultMsg:
		if a.dataModel.ApplySolveOutcome(msg.UploadID, msg.Resp, msg.Err) {
			a.updateViewportContent(true)
			cmds = append(cmds, a.renderNewMessages(0)...)
			cmds = append(cmds, a.dataModel.SaveCurrentSessionCmd())

			if a.dataModel.Phase == appmodel.PhaseSolved && msg.Resp != nil {
				source := ""
				if a.dataModel.Upload != nil {
					source = a.dataModel.Upload.Name
				}
				cmds = append(cmds, a.dataModel.RecordSolveCmd(
					a.dataModel.LastEquation,
					len(msg.Resp.Steps),
					source,
				))
			}
		}
		return a, tea.Batch(cmds...)

	case markdownRenderedMsg:
		delete(a.pendingRenders, msg.MessageID)

		// Look the message up by ID; indices may have shifted (or the
		// message may be gone entirely) since the pass was queued.
		applied := false
		for i := range a.dataModel.Messages {
			if a.dataModel.Messages[i].ID == msg.MessageID {
				a.dataModel.Messages[i].Rendered = msg.Rendered
				applied = true
				break
			}
		}
		if applied {
			a.updateViewportContent(true)
		} else if config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] Discarding typeset result for removed message %s", msg.MessageID)
		}
		return a, tea.Batch(cmds...)

	case historyListMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[AppView] History fetch failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		a.historyList = msg.Records
		a.filteredHistoryList = msg.Records
		a.selectedHistoryIdx = 0
		return a, tea.Batch(cmds...)

	case sessionSavedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[AppView] Session save failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		// Clear the dirty flag only when nothing was appended while the
		// save ran; a newer transcript still needs saving.
		if msg.Revision == a.dataModel.Revision {
			a.dataModel.SessionDirty = false
		}
		return a, tea.Batch(cmds...)

	case solveRecordedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[AppView] History record failed: %v", msg.Err)
		}
		return a, tea.Batch(cmds...)

	case flashTickMsg:
		a.flashStatus = ""
		return a, tea.Batch(cmds...)
	}

	// Everything else (mouse wheel etc.) goes to the viewport
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Acknowledge modal swallows everything until dismissed
	if a.showAcknowledgeModal {
		if msg.String() == "enter" || msg.String() == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, tea.Batch(cmds...)
	}

	if a.showHelp {
		switch msg.String() {
		case "ctrl+h", "esc", "q", "enter":
			a.showHelp = false
		}
		return a, tea.Batch(cmds...)
	}

	if a.imagePicker.Active {
		return a.handleImagePickerMode(msg, cmds)
	}

	if a.showHistory {
		return a.handleHistoryMode(msg, cmds)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		a.dataModel.Quitting = true
		if a.dataModel.SessionDirty {
			if saveCmd := a.dataModel.SaveCurrentSessionCmd(); saveCmd != nil {
				return a, tea.Sequence(saveCmd, tea.Quit)
			}
		}
		return a, tea.Quit

	case "o":
		a.imagePicker.Activate()
		cmds = append(cmds, a.imagePicker.Picker.Init())
		return a, tea.Batch(cmds...)

	case "s", "enter":
		// One outstanding solve max: the control only accepts
		// activation from a stable preview-ready state
		if a.dataModel.CanSolve() {
			a.dataModel.BeginSolve()
			cmds = append(cmds, a.dataModel.SolveCmd(), a.loadingSpinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case "ctrl+t":
		a.toggleTheme()
		a.updateViewportContent(false)
		return a, tea.Batch(cmds...)

	case "y":
		if a.dataModel.LastEquation != "" {
			if err := clipboard.WriteAll(a.dataModel.LastEquation); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[AppView] Clipboard write failed: %v", err)
				}
				return a, tea.Batch(cmds...)
			}
			a.flashStatus = "Equation copied"
			cmds = append(cmds, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return flashTickMsg{}
			}))
		}
		return a, tea.Batch(cmds...)

	case "r":
		a.showHistory = true
		a.historyFilterMode = false
		a.historyFilterInput.SetValue("")
		cmds = append(cmds, a.dataModel.FetchHistoryCmd(100))
		return a, tea.Batch(cmds...)

	case "n":
		return a.startNewSession(cmds)

	case "ctrl+h":
		a.showHelp = true
		return a, tea.Batch(cmds...)
	}

	// Scrolling and anything unhandled
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// startNewSession saves the current transcript and begins a fresh one.
func (a AppView) startNewSession(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if a.dataModel.SessionDirty {
		if saveCmd := a.dataModel.SaveCurrentSessionCmd(); saveCmd != nil {
			cmds = append(cmds, saveCmd)
		}
	}

	a.dataModel.Messages = nil
	a.dataModel.CurrentSession = nil
	a.dataModel.Upload = nil
	a.dataModel.PreviewDataURL = ""
	a.dataModel.LastEquation = ""
	a.dataModel.Phase = appmodel.PhaseIdle
	a.dataModel.SessionDirty = false

	a.updateViewportContent(true)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleImagePickerMode(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.imagePicker.Reset()
		return a, tea.Batch(cmds...)
	}

	// Update picker with the KeyMsg FIRST, then check for a selection
	a.imagePicker.Picker, cmd = a.imagePicker.Picker.Update(msg)
	cmds = append(cmds, cmd)

	if a.imagePicker.Picker.Path != "" {
		// Only a file triggers validation; directories just navigate
		if info, err := os.Stat(a.imagePicker.Picker.Path); err == nil && !info.IsDir() {
			path := a.imagePicker.Picker.Path

			if config.DebugLog != nil {
				config.DebugLog.Printf("[AppView] File selected: %s", path)
			}

			a.imagePicker.Reset()
			cmds = append(cmds, a.dataModel.ValidateUploadCmd(path))
			return a, tea.Batch(cmds...)
		}
		a.imagePicker.Picker.Path = ""
	}

	return a, tea.Batch(cmds...)
}
