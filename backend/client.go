// Package backend is the HTTP client for the equation tutoring service.
// The service exposes two multipart endpoints: predict (image -> LaTeX
// preview) and solve (image -> LaTeX plus step-by-step solution).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eqlens/upload"
)

const (
	// formField is the multipart field name the backend reads the image from.
	formField = "file"

	defaultTimeout = 60 * time.Second
)

// PredictResponse is the predict endpoint payload. Exactly one of Latex
// or Error is expected; both absent means the backend saw no equation.
type PredictResponse struct {
	Latex string `json:"latex"`
	Error string `json:"error"`
}

// SolutionStep is one entry of an ordered solution. Mathjax, when
// present, is the display form of Detail; order is solution order.
type SolutionStep struct {
	Step    string `json:"step"`
	Detail  string `json:"detail"`
	Mathjax string `json:"mathjax"`
}

// SolveResponse is the solve endpoint payload. Note is an optional
// free-text remark some backend revisions attach.
type SolveResponse struct {
	Latex string         `json:"latex"`
	Steps []SolutionStep `json:"steps"`
	Note  string         `json:"note"`
	Error string         `json:"error"`
}

// Client talks to one backend base URL. No auth, no retries; the
// request timeout is the only bound.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict uploads the image to the predict endpoint and returns the
// raw (unsanitized) equation payload.
func (c *Client) Predict(ctx context.Context, att *upload.Attachment) (*PredictResponse, error) {
	// Trailing slash matters: the backend registers the route as /predict/.
	body, err := c.post(ctx, "/predict/", att)
	if err != nil {
		return nil, err
	}

	var resp PredictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}
	return &resp, nil
}

// Solve uploads the image to the solve endpoint and returns the raw
// equation and solution steps.
func (c *Client) Solve(ctx context.Context, att *upload.Attachment) (*SolveResponse, error) {
	body, err := c.post(ctx, "/solve", att)
	if err != nil {
		return nil, err
	}

	var resp SolveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode solve response: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, att *upload.Attachment) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(formField, att.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// The backend reports its own failures inside a 200 JSON payload,
	// so any non-2xx status is a transport-level problem.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d for %s", resp.StatusCode, path)
	}

	return body, nil
}
