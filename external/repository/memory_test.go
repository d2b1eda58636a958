package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gangstaai/scanclient/internal/repository"
)

func TestMemoryRepository_SaveAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	confidence := 0.8
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := repo.SaveScan(ctx, repository.SaveScanInput{
		ID:          "scan-1",
		FileName:    "speech.mp3",
		Status:      repository.ScanStatusDone,
		Transcript:  "hello",
		SpeakerName: "Jane Doe",
		Confidence:  &confidence,
		StartedAt:   started,
		EndedAt:     started.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	confidence = 0.1

	got, err := repo.GetScan(ctx, "scan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Transcript != "hello" || got.SpeakerName != "Jane Doe" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Confidence == nil || *got.Confidence != 0.8 {
		t.Fatalf("expected stored confidence to be copied, got %v", got.Confidence)
	}
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.GetScan(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_ = repo.SaveScan(ctx, repository.SaveScanInput{
			ID:        id,
			Status:    repository.ScanStatusDone,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	list, err := repo.ListScans(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", list)
	}

	all, _ := repo.ListScans(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected all scans, got %d", len(all))
	}
}

func TestMemoryRepository_UpsertKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryRepository()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	ctx := context.Background()

	_ = repo.SaveScan(ctx, repository.SaveScanInput{ID: "a", Status: repository.ScanStatusFailed})
	repo.now = func() time.Time { return first.Add(time.Hour) }
	_ = repo.SaveScan(ctx, repository.SaveScanInput{ID: "a", Status: repository.ScanStatusDone})

	got, _ := repo.GetScan(ctx, "a")
	if got.Status != repository.ScanStatusDone || !got.CreatedAt.Equal(first) {
		t.Fatalf("unexpected record: %+v", got)
	}
}
