package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func cliEnv(t *testing.T, apiBaseURL string) string {
	t.Helper()
	historyPath := filepath.Join(t.TempDir(), "scans.jsonl")
	t.Setenv("API_BASE_URL", apiBaseURL)
	t.Setenv("SCAN_HISTORY_PATH", historyPath)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SCAN_WEBHOOK_URL", "")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_CHANNEL_ID", "")
	return historyPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScanThenLocalHistoryAcrossRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_transcription/stream" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: Quick Transcript: hello from the first run\n\n")
		_, _ = io.WriteString(w, "data: Author: Jane Doe (92.5%)\n\n")
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()
	historyPath := cliEnv(t, server.URL)

	audioPath := filepath.Join(t.TempDir(), "speech.mp3")
	if err := os.WriteFile(audioPath, []byte("audio-bytes"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := execute(t, "scan", "--quiet", audioPath)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(out, "Status: done") {
		t.Fatalf("unexpected scan output: %q", out)
	}
	if _, err := os.Stat(historyPath); err != nil {
		t.Fatalf("expected history file: %v", err)
	}

	out, err = execute(t, "history", "--local")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "hello from the first run") || !strings.Contains(out, "Jane Doe") {
		t.Fatalf("expected the earlier scan in history, got %q", out)
	}
}

func TestNewsRequiresDatabase(t *testing.T) {
	cliEnv(t, "http://localhost:3002")
	for _, args := range [][]string{{"news"}, {"song", "history"}} {
		_, err := execute(t, args...)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("%v: expected missing database error, got %v", args, err)
		}
	}
}
