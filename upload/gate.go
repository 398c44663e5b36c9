// Package upload validates user-selected image files before they are
// sent to the backend and prepares their preview representations.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxBytes is the default upload ceiling (5 MiB). The backend rejects
// larger bodies, so there is no point shipping them over the wire.
const MaxBytes = 5 * 1024 * 1024

var (
	ErrInvalidType = errors.New("file is not an image")
	ErrTooLarge    = errors.New("file exceeds the upload size limit")
)

// Attachment is one accepted upload. It is created whole by Validate and
// never mutated; choosing a new file replaces it entirely.
type Attachment struct {
	ID   string // uuid tag carried by every request issued for this file
	Name string
	Path string
	MIME string
	Size int64
	Data []byte
}

// Validate checks a candidate file against the image-type and size
// constraints and reads it into memory on success.
//
// The size ceiling is checked from file metadata before the file is
// read, so an oversized file never gets loaded. The MIME type is taken
// from the file content (sniffed), not the extension: a renamed .txt
// must not slip through as image/png.
func Validate(path string, maxBytes int64) (*Attachment, error) {
	if maxBytes <= 0 {
		maxBytes = MaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, ErrInvalidType
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidType, mtype.String())
	}

	return &Attachment{
		ID:   uuid.New().String(),
		Name: filepath.Base(path),
		Path: path,
		MIME: trimMIMEParams(mtype.String()),
		Size: info.Size(),
		Data: data,
	}, nil
}

// DataURL encodes the attachment as a data URL for preview state.
func (a *Attachment) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MIME, base64.StdEncoding.EncodeToString(a.Data))
}

// trimMIMEParams drops any parameters from a MIME string
// ("image/png; charset=binary" -> "image/png").
func trimMIMEParams(m string) string {
	if idx := strings.Index(m, ";"); idx != -1 {
		return strings.TrimSpace(m[:idx])
	}
	return m
}
