package model

import (
	"errors"
	"strings"
	"testing"

	"eqlens/backend"
	"eqlens/config"
	"eqlens/storage"
	"eqlens/upload"
)

func testModel() *Model {
	cfg := &config.Config{MaxUploadBytes: 5 * 1024 * 1024}
	return NewModel(cfg, nil, nil, nil, nil, "test")
}

func testUpload(id string) *upload.Attachment {
	return &upload.Attachment{
		ID:   id,
		Name: "equation.png",
		MIME: "image/png",
		Size: 1024,
		Data: []byte{0x89, 'P', 'N', 'G'},
	}
}

// botMessages filters the transcript down to bot entries.
func botMessages(m *Model) []Message {
	var out []Message
	for _, msg := range m.Messages {
		if msg.Role == "bot" {
			out = append(out, msg)
		}
	}
	return out
}

func TestBeginUpload(t *testing.T) {
	m := testModel()
	m.AppendMessage(Message{Role: "bot", Content: "old preview", Preview: true})
	m.AppendMessage(Message{Role: "bot", Content: "kept"})
	m.PreviewDataURL = "data:image/png;base64,old"

	m.BeginUpload(testUpload("u1"))

	if m.Phase != PhasePreviewing {
		t.Errorf("Phase = %v, want previewing", m.Phase)
	}
	if m.PreviewDataURL != "" {
		t.Error("previous preview data URL not cleared")
	}
	for _, msg := range m.Messages {
		if msg.Content == "old preview" {
			t.Error("preview-tagged message survived a new upload")
		}
	}

	var hasKept, hasUser, hasIndicator bool
	for _, msg := range m.Messages {
		switch {
		case msg.Content == "kept":
			hasKept = true
		case msg.Role == "user" && strings.Contains(msg.Content, "equation.png"):
			hasUser = true
		case IsLoadingIndicator(msg):
			hasIndicator = true
		}
	}
	if !hasKept {
		t.Error("non-preview message was removed")
	}
	if !hasUser {
		t.Error("upload announcement missing from transcript")
	}
	if !hasIndicator {
		t.Error("loading indicator missing from transcript")
	}
}

func TestPredictSuccess(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))

	applied := m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	if !applied {
		t.Fatal("fresh predict result was discarded")
	}

	if m.Phase != PhasePreviewReady {
		t.Errorf("Phase = %v, want preview-ready", m.Phase)
	}
	if m.LastEquation != "x^2" {
		t.Errorf("LastEquation = %q, want x^2", m.LastEquation)
	}

	bots := botMessages(m)
	if len(bots) != 1 {
		t.Fatalf("got %d bot messages, want exactly 1", len(bots))
	}
	if bots[0].Content != "Predicted Equation (Preview): $$x^2$$" {
		t.Errorf("message = %q", bots[0].Content)
	}
	if !bots[0].Preview {
		t.Error("equation preview message not preview-tagged")
	}

	for _, msg := range m.Messages {
		if IsLoadingIndicator(msg) {
			t.Error("loading indicator not removed after predict result")
		}
	}
}

func TestPredictSanitizesLatex(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))

	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "```latex\n x=1 ```"}, nil)

	bots := botMessages(m)
	if len(bots) != 1 || bots[0].Content != "Predicted Equation (Preview): $$x=1$$" {
		t.Errorf("messages = %+v, want sanitized x=1 preview", bots)
	}
}

func TestPredictBackendError(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))

	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Error: "bad image"}, nil)

	if m.Phase != PhaseIdle {
		t.Errorf("Phase = %v, want idle (Solve must stay hidden)", m.Phase)
	}
	bots := botMessages(m)
	if len(bots) != 1 || !strings.Contains(bots[0].Content, "bad image") {
		t.Errorf("messages = %+v, want exactly one error message", bots)
	}
	if m.CanSolve() {
		t.Error("CanSolve true after a backend error")
	}
}

func TestPredictEmptyResponse(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))

	m.ApplyPredictOutcome("u1", &backend.PredictResponse{}, nil)

	if m.Phase != PhaseIdle {
		t.Errorf("Phase = %v, want idle", m.Phase)
	}
	bots := botMessages(m)
	if len(bots) != 1 || bots[0].Content != "No equation predicted." {
		t.Errorf("messages = %+v, want the no-equation message", bots)
	}
}

func TestPredictTransportError(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))

	m.ApplyPredictOutcome("u1", nil, errors.New("connection refused"))

	if m.Phase != PhaseIdle {
		t.Errorf("Phase = %v, want idle", m.Phase)
	}
	bots := botMessages(m)
	if len(bots) != 1 || !strings.Contains(bots[0].Content, "connection refused") {
		t.Errorf("messages = %+v, want transport error message", bots)
	}
}

func TestStalePredictDiscarded(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.BeginUpload(testUpload("u2"))

	before := len(m.Messages)
	applied := m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)

	if applied {
		t.Error("stale predict result was applied")
	}
	if len(m.Messages) != before {
		t.Error("stale predict result modified the transcript")
	}
	if m.Phase != PhasePreviewing {
		t.Errorf("Phase = %v, want previewing for the newer upload", m.Phase)
	}
}

func TestSolveSuccessOrdering(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	m.BeginSolve()

	resp := &backend.SolveResponse{
		Latex: "x^2",
		Steps: []backend.SolutionStep{
			{Step: "Step 1", Mathjax: "x=1"},
			{Step: "Step 2", Detail: "x=2"},
		},
		Note: "check both roots",
	}
	if !m.ApplySolveOutcome("u1", resp, nil) {
		t.Fatal("fresh solve result was discarded")
	}

	if m.Phase != PhaseSolved {
		t.Errorf("Phase = %v, want solved", m.Phase)
	}

	bots := botMessages(m)
	// preview message + equation + steps + note
	if len(bots) != 4 {
		t.Fatalf("got %d bot messages, want 4", len(bots))
	}

	if bots[1].Content != "Equation: $$x^2$$" {
		t.Errorf("equation message = %q", bots[1].Content)
	}

	steps := bots[2].Content
	idx1 := strings.Index(steps, "1. Step 1: $$x=1$$")
	idx2 := strings.Index(steps, "2. Step 2: $$x=2$$")
	if idx1 == -1 || idx2 == -1 {
		t.Fatalf("steps message = %q, want both entries", steps)
	}
	if idx1 > idx2 {
		t.Error("solution steps out of order")
	}

	if bots[3].Content != "*check both roots*" {
		t.Errorf("note message = %q, want emphasized note", bots[3].Content)
	}
}

func TestSolveMissingLatex(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	m.BeginSolve()

	m.ApplySolveOutcome("u1", &backend.SolveResponse{}, nil)

	bots := botMessages(m)
	if len(bots) != 2 || bots[1].Content != "Equation: N/A" {
		t.Errorf("messages = %+v, want explicit N/A equation message", bots)
	}
	if m.Phase != PhaseSolved {
		t.Errorf("Phase = %v, want solved", m.Phase)
	}
}

func TestSolveFailureRestoresPreviewReady(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	m.BeginSolve()

	m.ApplySolveOutcome("u1", nil, errors.New("timeout"))

	if m.Phase != PhasePreviewReady {
		t.Errorf("Phase = %v, want preview-ready (Solve re-enabled)", m.Phase)
	}
	if !m.CanSolve() {
		t.Error("CanSolve false after a failed solve; control must be restored")
	}
}

func TestSolveBackendErrorRestoresPreviewReady(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	m.BeginSolve()

	m.ApplySolveOutcome("u1", &backend.SolveResponse{Error: "solver unavailable"}, nil)

	if m.Phase != PhasePreviewReady {
		t.Errorf("Phase = %v, want preview-ready", m.Phase)
	}
	bots := botMessages(m)
	last := bots[len(bots)-1]
	if !strings.Contains(last.Content, "solver unavailable") {
		t.Errorf("last message = %q, want backend error", last.Content)
	}
}

func TestStaleSolveDiscarded(t *testing.T) {
	m := testModel()
	m.BeginUpload(testUpload("u1"))
	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	m.BeginSolve()

	// User picks a new file while the solve is in flight
	m.BeginUpload(testUpload("u2"))

	before := len(m.Messages)
	if m.ApplySolveOutcome("u1", &backend.SolveResponse{Latex: "x^2"}, nil) {
		t.Error("stale solve result was applied")
	}
	if len(m.Messages) != before {
		t.Error("stale solve result modified the transcript")
	}
}

func TestCanSolve(t *testing.T) {
	m := testModel()

	if m.CanSolve() {
		t.Error("CanSolve true with no upload")
	}

	m.BeginUpload(testUpload("u1"))
	if m.CanSolve() {
		t.Error("CanSolve true while predict is in flight")
	}

	m.ApplyPredictOutcome("u1", &backend.PredictResponse{Latex: "x^2"}, nil)
	if !m.CanSolve() {
		t.Error("CanSolve false in preview-ready")
	}

	m.BeginSolve()
	if m.CanSolve() {
		t.Error("CanSolve true while a solve is outstanding")
	}

	m.ApplySolveOutcome("u1", &backend.SolveResponse{Latex: "x^2"}, nil)
	if !m.CanSolve() {
		t.Error("CanSolve false after a completed solve")
	}

	// Constraint re-check: an upload that no longer satisfies the size
	// ceiling must not reach the network layer.
	m.Upload.Size = 6 * 1024 * 1024
	if m.CanSolve() {
		t.Error("CanSolve true for oversized selection")
	}
}

func TestAppendMessageAssignsStableID(t *testing.T) {
	m := testModel()

	i := m.AppendMessage(Message{Role: "user", Content: "first"})
	j := m.AppendMessage(Message{Role: "user", Content: "second"})

	if m.Messages[i].ID == "" || m.Messages[j].ID == "" {
		t.Fatal("appended messages missing IDs")
	}
	if m.Messages[i].ID == m.Messages[j].ID {
		t.Error("message IDs not unique")
	}
	if m.Revision != 2 {
		t.Errorf("Revision = %d after two appends, want 2", m.Revision)
	}
}

func TestSaveCommandKeepsDirtyUntilConfirmed(t *testing.T) {
	store, err := storage.NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	m := testModel()
	m.SessionStorage = store
	m.BeginUpload(testUpload("u1"))

	cmd := m.SaveCurrentSessionCmd()
	if cmd == nil {
		t.Fatal("no save command for a dirty session")
	}
	if !m.SessionDirty {
		t.Error("dirty flag cleared before the save ran; a failed save would lose the transcript")
	}

	msg := cmd()
	saved, ok := msg.(SessionSavedMsg)
	if !ok {
		t.Fatalf("got %T, want SessionSavedMsg", msg)
	}
	if saved.Err != nil {
		t.Fatalf("save failed: %v", saved.Err)
	}
	if saved.Revision != m.Revision {
		t.Errorf("saved revision %d, current %d; confirmation would never match", saved.Revision, m.Revision)
	}
}
