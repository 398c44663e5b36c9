package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eqlens/backend"
	"eqlens/config"
	"eqlens/latex"
	"eqlens/storage"
	"eqlens/upload"
)

// Phase is the request orchestrator state. Transitions:
//
//	Idle -> Previewing -> PreviewReady -> Solving -> Solved
//
// A failed predict falls back to Idle, a failed solve to PreviewReady.
// Choosing a new file restarts the cycle from Previewing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreviewing
	PhasePreviewReady
	PhaseSolving
	PhaseSolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreviewing:
		return "previewing"
	case PhasePreviewReady:
		return "preview-ready"
	case PhaseSolving:
		return "solving"
	case PhaseSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// predictingIndicator is the transient system message shown while the
// predict call is in flight. Removed as soon as a result lands.
const predictingIndicator = "Reading equation from image..."

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config         *config.Config
	Backend        *backend.Client
	SessionStorage *storage.SessionStorage
	History        *storage.HistoryStore

	// Transcript (append-only during a session; only preview-tagged
	// messages are removed, and only when a new file is chosen)
	Messages       []Message
	CurrentSession *storage.Session

	// Orchestrator state
	Phase          Phase
	Upload         *upload.Attachment // current selection; replaced wholesale
	PreviewDataURL string
	LastEquation   string // last sanitized predicted equation

	// Runtime state (not UI)
	SessionDirty       bool
	Revision           int // bumped on every transcript append; saves are confirmed against it
	NeedsInitialRender bool
	Quitting           bool

	// Application metadata
	Version string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, client *backend.Client, sessionStorage *storage.SessionStorage, history *storage.HistoryStore, lastSession *storage.Session, version string) *Model {
	var messages []Message
	needsRender := false
	if lastSession != nil {
		for _, sMsg := range lastSession.Messages {
			messages = append(messages, Message{
				ID:        uuid.New().String(),
				Role:      sMsg.Role,
				Content:   sMsg.Content,
				Rendered:  sMsg.Rendered,
				Preview:   sMsg.Preview,
				Timestamp: sMsg.Timestamp,
			})
		}
		needsRender = len(messages) > 0
	}

	return &Model{
		Config:             cfg,
		Backend:            client,
		SessionStorage:     sessionStorage,
		History:            history,
		Messages:           messages,
		CurrentSession:     lastSession,
		Phase:              PhaseIdle,
		NeedsInitialRender: needsRender,
		Version:            version,
	}
}

// AppendMessage appends to the transcript and returns the message index.
// Every message gets a stable uuid; async results (typeset passes) must
// address messages by ID, never by index, because preview clearing
// shifts indices.
func (m *Model) AppendMessage(msg Message) int {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	m.Messages = append(m.Messages, msg)
	m.Revision++
	m.SessionDirty = true
	return len(m.Messages) - 1
}

// ClearPreviewMessages drops every preview-tagged message. Called when a
// new file is chosen; nothing else ever removes transcript entries.
func (m *Model) ClearPreviewMessages() {
	kept := m.Messages[:0]
	for _, msg := range m.Messages {
		if !msg.Preview {
			kept = append(kept, msg)
		}
	}
	m.Messages = kept
}

// removeLoadingIndicator drops the transient predict spinner message.
func (m *Model) removeLoadingIndicator() {
	kept := m.Messages[:0]
	for _, msg := range m.Messages {
		if msg.Role == "system" && msg.Content == predictingIndicator {
			continue
		}
		kept = append(kept, msg)
	}
	m.Messages = kept
}

// IsLoadingIndicator reports whether a message is the predict spinner.
func IsLoadingIndicator(msg Message) bool {
	return msg.Role == "system" && msg.Content == predictingIndicator
}

// BeginUpload installs a newly validated attachment and starts the
// preview cycle. Side effects on entry: the previous preview image, all
// preview-tagged transcript messages and the Solve control go away, and
// a loading indicator is appended.
func (m *Model) BeginUpload(att *upload.Attachment) {
	m.Upload = att
	m.PreviewDataURL = ""
	m.ClearPreviewMessages()
	m.removeLoadingIndicator()

	m.AppendMessage(Message{
		Role:    "user",
		Content: fmt.Sprintf("Uploaded: %s (%s, %d bytes)", att.Name, att.MIME, att.Size),
	})
	m.AppendMessage(Message{
		Role:    "system",
		Content: predictingIndicator,
		Preview: true,
	})

	m.Phase = PhasePreviewing
}

// isCurrent reports whether a response tag still matches the selection.
// Requests are tagged with the uuid of the upload they were issued for;
// anything else is a stale in-flight response and must be discarded.
func (m *Model) isCurrent(uploadID string) bool {
	return m.Upload != nil && m.Upload.ID == uploadID
}

// ApplyPredictOutcome reduces a predict response (or its failure) into
// transcript messages and the next phase. Returns false when the
// response was stale and discarded.
func (m *Model) ApplyPredictOutcome(uploadID string, resp *backend.PredictResponse, err error) bool {
	if !m.isCurrent(uploadID) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Discarding stale predict result for upload %s", uploadID)
		}
		return false
	}

	m.removeLoadingIndicator()

	switch {
	case err != nil:
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("Error: %v", err)})
		m.Phase = PhaseIdle

	case resp.Error != "":
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("Error: %s", resp.Error)})
		m.Phase = PhaseIdle

	case resp.Latex != "":
		equation := latex.Sanitize(resp.Latex)
		m.LastEquation = equation
		m.AppendMessage(Message{
			Role:    "bot",
			Content: fmt.Sprintf("Predicted Equation (Preview): $$%s$$", equation),
			Preview: true,
		})
		m.Phase = PhasePreviewReady

	default:
		m.AppendMessage(Message{Role: "bot", Content: "No equation predicted."})
		m.Phase = PhaseIdle
	}

	return true
}

// CanSolve reports whether the Solve control should accept activation.
// The selection must still satisfy the image-type and size constraints;
// a selection that no longer does must not reach the network layer.
func (m *Model) CanSolve() bool {
	if m.Phase != PhasePreviewReady && m.Phase != PhaseSolved {
		return false
	}
	if m.Upload == nil {
		return false
	}
	if !strings.HasPrefix(m.Upload.MIME, "image/") {
		return false
	}
	maxBytes := int64(upload.MaxBytes)
	if m.Config != nil && m.Config.MaxUploadBytes > 0 {
		maxBytes = m.Config.MaxUploadBytes
	}
	return m.Upload.Size <= maxBytes
}

// BeginSolve moves the orchestrator into the Solving phase. Only one
// solve may be outstanding: the caller disables the Solve control for
// the duration of the call.
func (m *Model) BeginSolve() {
	m.Phase = PhaseSolving
}

// ApplySolveOutcome reduces a solve response (or its failure) into
// transcript messages, in the mandated order: equation first, then the
// ordered steps, then any note. Returns false when the response was
// stale and discarded. The phase always leaves Solving, success or not.
func (m *Model) ApplySolveOutcome(uploadID string, resp *backend.SolveResponse, err error) bool {
	if !m.isCurrent(uploadID) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Discarding stale solve result for upload %s", uploadID)
		}
		return false
	}

	if err != nil {
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("Error: %v", err)})
		m.Phase = PhasePreviewReady
		return true
	}
	if resp.Error != "" {
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("Error: %s", resp.Error)})
		m.Phase = PhasePreviewReady
		return true
	}

	if resp.Latex != "" {
		equation := latex.Sanitize(resp.Latex)
		m.LastEquation = equation
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("Equation: $$%s$$", equation)})
	} else {
		m.AppendMessage(Message{Role: "bot", Content: "Equation: N/A"})
	}

	if len(resp.Steps) > 0 {
		m.AppendMessage(Message{Role: "bot", Content: formatSteps(resp.Steps)})
	}

	if resp.Note != "" {
		m.AppendMessage(Message{Role: "bot", Content: fmt.Sprintf("*%s*", resp.Note)})
	}

	m.Phase = PhaseSolved
	return true
}

// formatSteps renders the solution as one ordered markdown list. Each
// step expression is sanitized independently; the display form
// (mathjax) wins over the plain detail when both are present.
func formatSteps(steps []backend.SolutionStep) string {
	var b strings.Builder
	b.WriteString("Solution steps:\n")
	for i, step := range steps {
		label := step.Step
		if label == "" {
			label = fmt.Sprintf("Step %d", i+1)
		}
		expr := step.Mathjax
		if expr == "" {
			expr = step.Detail
		}
		fmt.Fprintf(&b, "%d. %s: $$%s$$\n", i+1, label, latex.Sanitize(expr))
	}
	return strings.TrimRight(b.String(), "\n")
}
