package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNoDatabase is returned by feed reads when no DATABASE_URL is configured.
// The news feed and song history live only in the backend database.
var ErrNoDatabase = errors.New("DATABASE_URL is not set; the news feed and song history are read from the backend database")

const DefaultFeedLimit = 20

// NewsArticle is one collected article of the smart news feed.
type NewsArticle struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	SourceName     string    `json:"source_name"`
	SourceURL      string    `json:"source_url"`
	Bias           string    `json:"bias"`
	BiasConfidence float64   `json:"bias_confidence"`
	TrustScore     float64   `json:"trust_score"`
	Language       string    `json:"language,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// SongRecord is one generated news song.
type SongRecord struct {
	ID        string    `json:"id"`
	Genre     string    `json:"genre"`
	Lyrics    string    `json:"lyrics"`
	SongURL   string    `json:"song_url"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedRepository reads tables the backend owns; it never writes them.
type FeedRepository interface {
	// ListNews returns the most recently published articles first.
	ListNews(ctx context.Context, limit int) ([]NewsArticle, error)
	// ListSongs returns the most recently generated songs first.
	ListSongs(ctx context.Context, limit int) ([]SongRecord, error)
}
