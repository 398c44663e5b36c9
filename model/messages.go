package model

import (
	"eqlens/backend"
	"eqlens/storage"
	"eqlens/upload"
)

// UploadAcceptedMsg carries a file that passed validation.
type UploadAcceptedMsg struct {
	Attachment *upload.Attachment
}

// UploadRejectedMsg carries a validation failure for the chosen path.
type UploadRejectedMsg struct {
	Path string
	Err  error
}

// PreviewReadyMsg delivers the decoded preview for an upload. The
// decode runs independently of the predict call; Err is diagnostic
// only, a failed preview never blocks the request flow.
type PreviewReadyMsg struct {
	UploadID string
	DataURL  string
	ANSI     string // terminal raster of the image
	Err      error
}

// PredictResultMsg delivers the predict endpoint outcome for the
// upload identified by UploadID.
type PredictResultMsg struct {
	UploadID string
	Resp     *backend.PredictResponse
	Err      error
}

// SolveResultMsg delivers the solve endpoint outcome for the upload
// identified by UploadID.
type SolveResultMsg struct {
	UploadID string
	Resp     *backend.SolveResponse
	Err      error
}

// MarkdownRenderedMsg carries the finished typeset pass for one
// message, addressed by its stable ID. Indices shift when preview
// messages are cleared, so a late result delivered by index would land
// on the wrong message.
type MarkdownRenderedMsg struct {
	MessageID string
	Rendered  string
}

// SessionSavedMsg reports a completed session save. Revision is the
// transcript revision the save captured; the dirty flag may only be
// cleared when it still matches the current revision.
type SessionSavedMsg struct {
	Err      error
	Revision int
}

type SolveRecordedMsg struct {
	Err error
}

type HistoryListMsg struct {
	Records []storage.SolveRecord
	Err     error
}

type FlashTickMsg struct{}
