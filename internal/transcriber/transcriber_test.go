package transcriber

import (
	"errors"
	"testing"
)

func TestUploadValidate_RequiresData(t *testing.T) {
	if err := (Upload{FileName: "a.mp3"}).Validate(); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if err := (Upload{Data: []byte{1}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUploadContentType(t *testing.T) {
	cases := map[string]Upload{
		"audio/x-custom": {FileName: "a.mp3", MIMEType: "audio/x-custom"},
		"audio/mpeg":     {FileName: "speech.MP3"},
		"audio/wav":      {FileName: "clip.wav"},
	}
	for want, u := range cases {
		if got := u.ContentType(); got != want {
			t.Fatalf("%+v: expected %s, got %s", u, want, got)
		}
	}
	if got := (Upload{FileName: "noext"}).ContentType(); got != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg fallback, got %s", got)
	}
}

func TestUploadName(t *testing.T) {
	if got := (Upload{FileName: "/tmp/rec/voice.m4a"}).Name(); got != "voice.m4a" {
		t.Fatalf("unexpected name: %s", got)
	}
	if got := (Upload{}).Name(); got != "audio.mp3" {
		t.Fatalf("unexpected default name: %s", got)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: "server exploded"}
	if err.Error() != "HTTP 500: server exploded" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
