package webhook

import "context"

const ScanWebhookSchemaVersion = "1"

type ScanWebhookPayload struct {
	SchemaVersion string   `json:"schema_version"`
	SessionID     string   `json:"session_id"`
	FileName      string   `json:"file_name"`
	Status        string   `json:"status"`
	Transcript    string   `json:"transcript"`
	SpeakerName   string   `json:"speaker_name,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Error         string   `json:"error,omitempty"`
	StartedAt     string   `json:"started_at"`
	EndedAt       string   `json:"ended_at"`
	DurationMS    int64    `json:"duration_ms"`
}

type Sender interface {
	SendScanResult(ctx context.Context, payload ScanWebhookPayload) error
}
