package song

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const DefaultStyle = "Hip-Hop"

var ErrInvalidInput = errors.New("invalid input")

type Request struct {
	Summary     string `json:"summary"`
	Style       string `json:"style"`
	UseAILyrics bool   `json:"use_ai_lyrics"`
}

// NewRequest returns a request with the backend's defaults.
func NewRequest(summary string) Request {
	return Request{Summary: summary, Style: DefaultStyle, UseAILyrics: true}
}

type Track struct {
	TrackID     string `json:"track_id"`
	DownloadURL string `json:"download_url"`
	Lyrics      string `json:"lyrics"`
	Style       string `json:"style"`
	Summary     string `json:"summary"`
}

type Generator interface {
	GenerateSong(ctx context.Context, req Request) (*Track, error)
}

type Service struct {
	generator Generator
}

func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

func (s *Service) Compose(ctx context.Context, req Request) (*Track, error) {
	req.Summary = strings.TrimSpace(req.Summary)
	if req.Summary == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("summary is required"))
	}
	if strings.TrimSpace(req.Style) == "" {
		req.Style = DefaultStyle
	}
	track, err := s.generator.GenerateSong(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate song: %w", err)
	}
	slog.Info("song generated", "track_id", track.TrackID, "style", track.Style)
	return track, nil
}
