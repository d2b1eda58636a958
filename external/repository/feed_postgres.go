package repository

import (
	"context"
	"fmt"

	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// smart_news rows written by older collectors may miss the optional columns.
const newsColumns = `id::text, title, COALESCE(summary, ''), COALESCE(source_name, ''), COALESCE(source_url, ''),
	COALESCE(bias, ''), COALESCE(bias_confidence, 0), COALESCE(trust_score, 0), COALESCE(language, ''),
	COALESCE(published_at, created_at), created_at`

const songColumns = `id::text, COALESCE(genre, ''), COALESCE(lyrics, ''), COALESCE(song_url, ''), created_at`

type PostgresFeedRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFeedRepository(pool *pgxpool.Pool) *PostgresFeedRepository {
	return &PostgresFeedRepository{pool: pool}
}

func (r *PostgresFeedRepository) Close() {
	r.pool.Close()
}

func (r *PostgresFeedRepository) ListNews(ctx context.Context, limit int) ([]repository.NewsArticle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+newsColumns+` FROM smart_news ORDER BY published_at DESC NULLS LAST LIMIT $1`, feedLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query smart_news: %w", err)
	}
	defer rows.Close()
	var list []repository.NewsArticle
	for rows.Next() {
		a, err := newsArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *PostgresFeedRepository) ListSongs(ctx context.Context, limit int) ([]repository.SongRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+songColumns+` FROM news_songs ORDER BY created_at DESC LIMIT $1`, feedLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query news_songs: %w", err)
	}
	defer rows.Close()
	var list []repository.SongRecord
	for rows.Next() {
		s, err := songRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func feedLimit(limit int) int {
	if limit <= 0 {
		return repository.DefaultFeedLimit
	}
	return limit
}

func newsArticle(row pgx.Row) (repository.NewsArticle, error) {
	var a repository.NewsArticle
	err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.SourceName, &a.SourceURL,
		&a.Bias, &a.BiasConfidence, &a.TrustScore, &a.Language, &a.PublishedAt, &a.CreatedAt)
	return a, err
}

func songRecord(row pgx.Row) (repository.SongRecord, error) {
	var s repository.SongRecord
	err := row.Scan(&s.ID, &s.Genre, &s.Lyrics, &s.SongURL, &s.CreatedAt)
	return s, err
}

// NoFeed stands in when no database is configured.
type NoFeed struct{}

func (NoFeed) ListNews(context.Context, int) ([]repository.NewsArticle, error) {
	return nil, repository.ErrNoDatabase
}

func (NoFeed) ListSongs(context.Context, int) ([]repository.SongRecord, error) {
	return nil, repository.ErrNoDatabase
}
