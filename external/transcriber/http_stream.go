package transcriber

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gangstaai/scanclient/internal/transcriber"
)

const (
	streamPath       = "/generate_transcription/stream"
	maxErrorBodySize = 64 << 10
)

type HTTPStreamOpener struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStreamOpener returns an opener for the speaker-scan stream endpoint.
// The client must not carry a Timeout: the body is read for as long as the
// backend keeps streaming.
func NewHTTPStreamOpener(baseURL string, client *http.Client) *HTTPStreamOpener {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPStreamOpener{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (o *HTTPStreamOpener) OpenStream(ctx context.Context, upload transcriber.Upload) (io.ReadCloser, error) {
	if err := upload.Validate(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadPart(mw, upload))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+streamPath, pr)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")

	slog.Debug("opening transcription stream", "url", req.URL.String(), "file_name", upload.Name(), "bytes", len(upload.Data))
	resp, err := o.client.Do(req)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		defer func() {
			_ = resp.Body.Close()
		}()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &transcriber.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp.Body, nil
}

func writeUploadPart(mw *multipart.Writer, upload transcriber.Upload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Name()))
	h.Set("Content-Type", upload.ContentType())
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return err
	}
	return mw.Close()
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
