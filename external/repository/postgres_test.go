package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/gangstaai/scanclient/internal/repository"
)

func TestPostgresGetScan_NonUUIDIsNotFound(t *testing.T) {
	// a nil pool would panic if the query were issued
	repo := NewPostgresRepository(nil)
	for _, id := range []string{"", "latest", "1234", "not-a-uuid-at-all"} {
		rec, err := repo.GetScan(context.Background(), id)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("%q: expected ErrNotFound, got %v", id, err)
		}
		if rec != nil {
			t.Fatalf("%q: expected no record", id)
		}
	}
}
