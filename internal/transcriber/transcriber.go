package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

const defaultMIMEType = "audio/mpeg"

var ErrNoFile = errors.New("no file provided")

// Upload is one user-selected file. It is not modified after creation.
type Upload struct {
	FileName string
	MIMEType string
	Data     []byte
}

func (u Upload) Validate() error {
	if len(u.Data) == 0 {
		return ErrNoFile
	}
	return nil
}

// ContentType returns the declared MIME type, falling back to the file
// extension and then to audio/mpeg.
func (u Upload) ContentType() string {
	if u.MIMEType != "" {
		return u.MIMEType
	}
	if t := mimeFromExt(filepath.Ext(u.FileName)); t != "" {
		return t
	}
	return defaultMIMEType
}

// Name returns the multipart file name, audio.mp3 when none was given.
func (u Upload) Name() string {
	if name := strings.TrimSpace(filepath.Base(u.FileName)); name != "" && name != "." && name != "/" {
		return name
	}
	return "audio.mp3"
}

func mimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".aac":
		return "audio/aac"
	case ".webm":
		return "audio/webm"
	case "":
		return ""
	default:
		return mime.TypeByExtension(ext)
	}
}

// StatusError is returned when the backend answers with a non-2xx status.
// Body carries whatever detail text the server sent.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// StreamOpener issues the upload and returns the event-stream body once the
// response headers arrived with a 2xx status. The caller closes the body.
type StreamOpener interface {
	OpenStream(ctx context.Context, upload Upload) (io.ReadCloser, error)
}
