package scan

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gangstaai/scanclient/internal/discord"
	"github.com/gangstaai/scanclient/internal/repository"
)

func finishedState() State {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return State{
		SessionID:  "session-1",
		FileName:   "speech.mp3",
		Status:     StatusDone,
		Transcript: "Hello world",
		Speaker:    &Speaker{Name: "Jane Doe", Confidence: 0.925},
		StartedAt:  started,
		EndedAt:    started.Add(1500 * time.Millisecond),
	}
}

func TestBuildSaveScanInput(t *testing.T) {
	in := buildSaveScanInput(finishedState())
	if in.Status != repository.ScanStatusDone {
		t.Fatalf("unexpected status: %s", in.Status)
	}
	if in.SpeakerName != "Jane Doe" || in.Confidence == nil || *in.Confidence != 0.925 {
		t.Fatalf("unexpected speaker fields: %+v", in)
	}
	if in.ErrorMessage != "" {
		t.Fatalf("unexpected error message: %s", in.ErrorMessage)
	}

	failed := finishedState()
	failed.Status = StatusFailed
	failed.Speaker = nil
	failed.Err = newError(ErrTransport, errors.New("HTTP 500: server exploded"))
	in = buildSaveScanInput(failed)
	if in.Status != repository.ScanStatusFailed {
		t.Fatalf("unexpected status: %s", in.Status)
	}
	if in.Confidence != nil {
		t.Fatal("expected no confidence without speaker")
	}
	if !strings.Contains(in.ErrorMessage, "server exploded") {
		t.Fatalf("unexpected error message: %s", in.ErrorMessage)
	}
}

func TestBuildScanWebhookPayload(t *testing.T) {
	p := buildScanWebhookPayload(finishedState())
	if p.StartedAt != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected started_at: %s", p.StartedAt)
	}
	if p.DurationMS != 1500 {
		t.Fatalf("unexpected duration: %d", p.DurationMS)
	}
	if p.Status != "done" || p.SpeakerName != "Jane Doe" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestBuildDiscordSummary(t *testing.T) {
	got := buildDiscordSummary(finishedState())
	want := "Speaker scan `speech.mp3`\n🎤 Jane Doe (93%)\nHello world"
	if got != want {
		t.Fatalf("unexpected summary:\n%s", got)
	}

	failed := finishedState()
	failed.Status = StatusFailed
	failed.Err = newError(ErrTransport, errors.New("HTTP 500: server exploded"))
	got = buildDiscordSummary(failed)
	if got != "Speaker scan `speech.mp3` failed: "+UserFacingFailure {
		t.Fatalf("unexpected failure summary: %s", got)
	}
}

func TestBuildDiscordSummary_Truncates(t *testing.T) {
	st := finishedState()
	st.Transcript = strings.Repeat("言", discord.MaxMessageLength*2)
	got := buildDiscordSummary(st)
	if n := utf8.RuneCountInString(got); n != discord.MaxMessageLength {
		t.Fatalf("expected %d runes, got %d", discord.MaxMessageLength, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatal("expected ellipsis suffix")
	}
}
