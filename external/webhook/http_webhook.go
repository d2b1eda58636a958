package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gangstaai/scanclient/internal/webhook"
)

const (
	sessionHeader    = "X-Scan-Session-Id"
	maxErrorBodySize = 4 << 10
)

// StatusError reports a webhook receiver that answered with a non-2xx status.
type StatusError struct {
	SessionID  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("scan webhook for session %s returned status %d", e.SessionID, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPSender(webhookURL string) *HTTPSender {
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

// SendScanResult posts the payload as JSON and tags the request with the
// session id so receivers can deduplicate retries. It is a no-op without a URL.
func (s *HTTPSender) SendScanResult(ctx context.Context, payload webhook.ScanWebhookPayload) error {
	if s.webhookURL == "" {
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode scan webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, payload.SessionID)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("scan webhook for session %s: %w", payload.SessionID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{
			SessionID:  payload.SessionID,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
