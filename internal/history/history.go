package history

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("scan history item not found")

// Item is one speaker scan recorded by the backend.
type Item struct {
	ID         string  `json:"id"`
	Transcript string  `json:"transcript"`
	Author     string  `json:"author"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

type Source interface {
	ListScanHistory(ctx context.Context) ([]Item, error)
	GetScanHistory(ctx context.Context, id string) (*Item, error)
}
