package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eqlens/upload"
)

func testAttachment() *upload.Attachment {
	return &upload.Attachment{
		ID:   "test-upload",
		Name: "equation.png",
		MIME: "image/png",
		Size: 4,
		Data: []byte{0x89, 'P', 'N', 'G'},
	}
}

func TestPredict(t *testing.T) {
	var gotPath, gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing form field 'file': %v", err)
		} else {
			gotFilename = header.Filename
			file.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"latex": "x^2"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := client.Predict(context.Background(), testAttachment())
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	if gotPath != "/predict/" {
		t.Errorf("request path = %q, want /predict/", gotPath)
	}
	if gotFilename != "equation.png" {
		t.Errorf("uploaded filename = %q, want equation.png", gotFilename)
	}
	if resp.Latex != "x^2" {
		t.Errorf("Latex = %q, want x^2", resp.Latex)
	}
	if resp.Error != "" {
		t.Errorf("Error = %q, want empty", resp.Error)
	}
}

func TestPredictBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "bad image"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, 5*time.Second)
	resp, err := client.Predict(context.Background(), testAttachment())
	if err != nil {
		t.Fatalf("Predict returned transport error: %v", err)
	}
	if resp.Error != "bad image" {
		t.Errorf("Error = %q, want %q", resp.Error, "bad image")
	}
}

func TestSolve(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"latex": "x^2",
			"steps": [
				{"step": "Step 1", "mathjax": "x=1"},
				{"step": "Step 2", "detail": "x=2"}
			],
			"note": "two real roots"
		}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, 5*time.Second)
	resp, err := client.Solve(context.Background(), testAttachment())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	if gotPath != "/solve" {
		t.Errorf("request path = %q, want /solve", gotPath)
	}
	if resp.Latex != "x^2" {
		t.Errorf("Latex = %q, want x^2", resp.Latex)
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(resp.Steps))
	}
	if resp.Steps[0].Mathjax != "x=1" || resp.Steps[0].Step != "Step 1" {
		t.Errorf("step 0 = %+v, want Step 1 / mathjax x=1", resp.Steps[0])
	}
	if resp.Steps[1].Detail != "x=2" || resp.Steps[1].Mathjax != "" {
		t.Errorf("step 1 = %+v, want detail x=2 and no mathjax", resp.Steps[1])
	}
	if resp.Note != "two real roots" {
		t.Errorf("Note = %q, want %q", resp.Note, "two real roots")
	}
}

func TestSolveHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, 5*time.Second)
	if _, err := client.Solve(context.Background(), testAttachment()); err == nil {
		t.Fatal("Solve returned nil error for 500 response")
	}
}

func TestPredictMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, 5*time.Second)
	if _, err := client.Predict(context.Background(), testAttachment()); err == nil {
		t.Fatal("Predict returned nil error for malformed JSON")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", 0); err == nil {
		t.Error("NewClient accepted an empty URL")
	}

	client, err := NewClient("http://localhost:8000/", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", client.BaseURL())
	}
}
