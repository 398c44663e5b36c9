package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"eqlens/storage"
	"eqlens/upload"
)

// ValidateUploadCmd runs the upload gate on a chosen path.
func (m *Model) ValidateUploadCmd(path string) tea.Cmd {
	maxBytes := int64(upload.MaxBytes)
	if m.Config != nil && m.Config.MaxUploadBytes > 0 {
		maxBytes = m.Config.MaxUploadBytes
	}
	return func() tea.Msg {
		att, err := upload.Validate(path, maxBytes)
		if err != nil {
			return UploadRejectedMsg{Path: path, Err: err}
		}
		return UploadAcceptedMsg{Attachment: att}
	}
}

// PredictCmd issues the predict call for the current selection. The
// result message carries the upload's uuid so a response that arrives
// after the user picked a different file can be discarded.
func (m *Model) PredictCmd() tea.Cmd {
	if m.Backend == nil || m.Upload == nil {
		return nil
	}
	client := m.Backend
	att := m.Upload
	return func() tea.Msg {
		resp, err := client.Predict(context.Background(), att)
		return PredictResultMsg{UploadID: att.ID, Resp: resp, Err: err}
	}
}

// SolveCmd issues the solve call for the current selection, tagged the
// same way as PredictCmd.
func (m *Model) SolveCmd() tea.Cmd {
	if m.Backend == nil || m.Upload == nil {
		return nil
	}
	client := m.Backend
	att := m.Upload
	return func() tea.Msg {
		resp, err := client.Solve(context.Background(), att)
		return SolveResultMsg{UploadID: att.ID, Resp: resp, Err: err}
	}
}

// SaveCurrentSessionCmd persists the transcript to the current session,
// creating one on first save.
func (m *Model) SaveCurrentSessionCmd() tea.Cmd {
	if m.SessionStorage == nil {
		return nil
	}

	if m.CurrentSession == nil {
		m.CurrentSession = &storage.Session{
			Name: "Session " + time.Now().Format("2006-01-02 15:04"),
		}
	}

	var sessionMessages []storage.Message
	for _, msg := range m.Messages {
		if IsLoadingIndicator(msg) {
			continue
		}
		sessionMessages = append(sessionMessages, storage.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Rendered:  msg.Rendered,
			Preview:   msg.Preview,
			Timestamp: msg.Timestamp,
		})
	}

	m.CurrentSession.Messages = sessionMessages
	m.CurrentSession.Equation = m.LastEquation
	if m.Upload != nil {
		m.CurrentSession.SourceImage = m.Upload.Path
	}

	// The dirty flag stays set until the save is confirmed; the
	// SessionSavedMsg handler clears it when the captured revision is
	// still current, so a failed save never loses the transcript.
	session := m.CurrentSession
	store := m.SessionStorage
	revision := m.Revision
	return func() tea.Msg {
		return SessionSavedMsg{Err: store.Save(session), Revision: revision}
	}
}

// RecordSolveCmd appends one entry to the solve history.
func (m *Model) RecordSolveCmd(equation string, stepCount int, sourceImage string) tea.Cmd {
	if m.History == nil {
		return nil
	}
	history := m.History
	return func() tea.Msg {
		return SolveRecordedMsg{Err: history.Record(equation, stepCount, sourceImage)}
	}
}

// FetchHistoryCmd loads recent solve records for the history browser.
func (m *Model) FetchHistoryCmd(limit int) tea.Cmd {
	if m.History == nil {
		return nil
	}
	history := m.History
	return func() tea.Msg {
		records, err := history.List(limit)
		return HistoryListMsg{Records: records, Err: err}
	}
}
