package ui

import (
	"eqlens/model"
)

// Message type aliases - the canonical definitions live in the model package
type Message = model.Message

type uploadAcceptedMsg = model.UploadAcceptedMsg
type uploadRejectedMsg = model.UploadRejectedMsg
type previewReadyMsg = model.PreviewReadyMsg
type predictResultMsg = model.PredictResultMsg
type solveResultMsg = model.SolveResultMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type sessionSavedMsg = model.SessionSavedMsg
type solveRecordedMsg = model.SolveRecordedMsg
type historyListMsg = model.HistoryListMsg
type flashTickMsg = model.FlashTickMsg
