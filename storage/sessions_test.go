package storage

import (
	"testing"
	"time"
)

func TestSessionSaveLoad(t *testing.T) {
	store, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage returned error: %v", err)
	}

	session := &Session{
		Name:     "Quadratic practice",
		Equation: "x^2 + 2x + 1 = 0",
		Messages: []Message{
			{Role: "user", Content: "Uploaded: equation.png", Timestamp: time.Now()},
			{Role: "bot", Content: "Predicted Equation (Preview): $$x^2$$", Preview: true, Timestamp: time.Now()},
		},
	}

	if err := store.Save(session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if session.ID == "" {
		t.Fatal("Save did not assign an ID")
	}

	loaded, err := store.Load(session.ID)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.Name != session.Name {
		t.Errorf("Name = %q, want %q", loaded.Name, session.Name)
	}
	if loaded.Equation != session.Equation {
		t.Errorf("Equation = %q, want %q", loaded.Equation, session.Equation)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(loaded.Messages))
	}
	if !loaded.Messages[1].Preview {
		t.Error("preview tag lost on round-trip")
	}
}

func TestSessionList(t *testing.T) {
	store, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage returned error: %v", err)
	}

	older := &Session{Name: "older"}
	if err := store.Save(older); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	newer := &Session{Name: "newer"}
	newer.CreatedAt = time.Now().Add(time.Second)
	if err := store.Save(newer); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	// Force a distinct UpdatedAt ordering
	newer.UpdatedAt = older.UpdatedAt.Add(time.Minute)
	if err := store.Save(newer); err != nil {
		t.Fatalf("re-Save returned error: %v", err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if list[0].UpdatedAt.Before(list[1].UpdatedAt) {
		t.Error("List is not sorted newest first")
	}
}

func TestSessionDelete(t *testing.T) {
	store, err := NewSessionStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStorage returned error: %v", err)
	}

	session := &Session{Name: "doomed"}
	if err := store.Save(session); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Delete(session.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Load(session.ID); err == nil {
		t.Error("Load succeeded after Delete")
	}
}
