package ui

import (
	"bytes"
	"image/color"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/eliukblau/pixterm/pkg/ansimage"

	"eqlens/model"
	"eqlens/upload"
)

// Preview raster bounds in terminal cells. ansimage packs two pixel
// rows per cell, hence the doubled row count.
const (
	previewMaxLines = 12
	previewMaxCols  = 56
)

// loadPreviewCmd decodes the accepted upload into its preview forms:
// the data URL published to preview state and an ANSI raster for the
// transcript. Runs independently of the predict request; a decode
// failure is diagnostic only and never blocks the network flow.
func (a *AppView) loadPreviewCmd(att *upload.Attachment) tea.Cmd {
	cols := previewMaxCols
	if a.width > 0 && a.width-8 < cols {
		cols = a.width - 8
	}
	if cols < 10 {
		cols = 10
	}

	return func() tea.Msg {
		dataURL := att.DataURL()

		img, err := ansimage.NewScaledFromReader(
			bytes.NewReader(att.Data),
			previewMaxLines*2,
			cols,
			color.Black,
			ansimage.ScaleModeFit,
			ansimage.NoDithering,
		)
		if err != nil {
			return model.PreviewReadyMsg{UploadID: att.ID, DataURL: dataURL, Err: err}
		}

		return model.PreviewReadyMsg{
			UploadID: att.ID,
			DataURL:  dataURL,
			ANSI:     img.Render(),
		}
	}
}
