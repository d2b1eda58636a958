package scan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gangstaai/scanclient/internal/discord"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/gangstaai/scanclient/internal/webhook"
)

func buildSaveScanInput(st State) repository.SaveScanInput {
	in := repository.SaveScanInput{
		ID:         st.SessionID,
		FileName:   st.FileName,
		Status:     repository.ScanStatusDone,
		Transcript: st.Transcript,
		StartedAt:  st.StartedAt,
		EndedAt:    st.EndedAt,
	}
	if st.Status == StatusFailed {
		in.Status = repository.ScanStatusFailed
	}
	if st.Err != nil {
		in.ErrorMessage = st.Err.Error()
	}
	if st.Speaker != nil {
		in.SpeakerName = st.Speaker.Name
		confidence := st.Speaker.Confidence
		in.Confidence = &confidence
	}
	return in
}

func buildScanWebhookPayload(st State) webhook.ScanWebhookPayload {
	p := webhook.ScanWebhookPayload{
		SchemaVersion: webhook.ScanWebhookSchemaVersion,
		SessionID:     st.SessionID,
		FileName:      st.FileName,
		Status:        string(st.Status),
		Transcript:    st.Transcript,
		StartedAt:     st.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:       st.EndedAt.UTC().Format(time.RFC3339),
		DurationMS:    st.Duration().Milliseconds(),
	}
	if st.Err != nil {
		p.Error = st.Err.Error()
	}
	if st.Speaker != nil {
		p.SpeakerName = st.Speaker.Name
		confidence := st.Speaker.Confidence
		p.Confidence = &confidence
	}
	return p
}

// buildDiscordSummary renders the same line the scan screen shows:
// the speaker with a rounded percentage, then the transcript.
func buildDiscordSummary(st State) string {
	if st.Status == StatusFailed {
		return fmt.Sprintf("Speaker scan `%s` failed: %s", st.FileName, UserMessage(st.Err))
	}
	lines := []string{fmt.Sprintf("Speaker scan `%s`", st.FileName)}
	if st.Speaker != nil {
		lines = append(lines, fmt.Sprintf("🎤 %s (%d%%)", st.Speaker.Name, int(math.Round(st.Speaker.Confidence*100))))
	}
	if st.Transcript != "" {
		lines = append(lines, st.Transcript)
	}
	return truncateRunes(strings.Join(lines, "\n"), discord.MaxMessageLength)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
