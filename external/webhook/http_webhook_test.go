package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gangstaai/scanclient/internal/webhook"
)

func TestSendScanResult_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendScanResult(context.Background(), webhook.ScanWebhookPayload{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendScanResult_Success(t *testing.T) {
	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if id := r.Header.Get("X-Scan-Session-Id"); id != "session-1" {
			t.Errorf("unexpected session header: %q", id)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	confidence := 0.925
	sender := NewHTTPSender(server.URL)
	err := sender.SendScanResult(context.Background(), webhook.ScanWebhookPayload{
		SchemaVersion: webhook.ScanWebhookSchemaVersion,
		SessionID:     "session-1",
		Status:        "done",
		Transcript:    "hello world",
		SpeakerName:   "Jane Doe",
		Confidence:    &confidence,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got["session_id"] != "session-1" || got["transcript"] != "hello world" {
		t.Fatalf("unexpected body: %v", got)
	}
	if got["confidence"] != 0.925 {
		t.Fatalf("unexpected confidence: %v", got["confidence"])
	}
	if _, ok := got["error"]; ok {
		t.Fatal("expected empty error to be omitted")
	}
}

func TestSendScanResult_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("  missing transcript\n"))
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendScanResult(context.Background(), webhook.ScanWebhookPayload{SessionID: "session-9"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.SessionID != "session-9" || statusErr.StatusCode != http.StatusBadRequest || statusErr.Body != "missing transcript" {
		t.Fatalf("unexpected error: %+v", statusErr)
	}
	if !strings.Contains(err.Error(), "session-9") {
		t.Fatalf("expected session id in message, got %q", err.Error())
	}
}

func TestSendScanResult_ErrorBodyIsBounded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 64<<10)))
	}))
	defer server.Close()

	err := NewHTTPSender(server.URL).SendScanResult(context.Background(), webhook.ScanWebhookPayload{SessionID: "session-1"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if len(statusErr.Body) != maxErrorBodySize {
		t.Fatalf("expected body capped at %d bytes, got %d", maxErrorBodySize, len(statusErr.Body))
	}
}
