package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gangstaai/scanclient/internal/repository"
)

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(r))
	}
	for i, v := range r {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *float64:
			*d = v.(float64)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}

func TestNewsArticle_MapsColumns(t *testing.T) {
	published := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	row := fakeRow{"42", "Rates hold", "The bank kept rates.", "Wire", "https://example.com/a",
		"CENTER", 0.8, 0.5, "en", published, published.Add(time.Minute)}

	a, err := newsArticle(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "42" || a.Title != "Rates hold" || a.SourceName != "Wire" || a.Bias != "CENTER" {
		t.Fatalf("unexpected article: %+v", a)
	}
	if a.BiasConfidence != 0.8 || a.TrustScore != 0.5 || !a.PublishedAt.Equal(published) {
		t.Fatalf("unexpected article: %+v", a)
	}
}

func TestSongRecord_MapsColumns(t *testing.T) {
	created := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	s, err := songRecord(fakeRow{"song-1", "synthwave", "la la", "https://cdn.example.com/song.mp3", created})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "song-1" || s.Genre != "synthwave" || s.Lyrics != "la la" || s.SongURL != "https://cdn.example.com/song.mp3" || !s.CreatedAt.Equal(created) {
		t.Fatalf("unexpected song: %+v", s)
	}
}

func TestFeedLimit(t *testing.T) {
	cases := map[int]int{-1: repository.DefaultFeedLimit, 0: repository.DefaultFeedLimit, 5: 5}
	for in, want := range cases {
		if got := feedLimit(in); got != want {
			t.Fatalf("feedLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNoFeed(t *testing.T) {
	var feed NoFeed
	if _, err := feed.ListNews(context.Background(), 10); !errors.Is(err, repository.ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
	if _, err := feed.ListSongs(context.Background(), 10); !errors.Is(err, repository.ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
}
