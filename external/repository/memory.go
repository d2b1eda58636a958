package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gangstaai/scanclient/internal/repository"
)

// MemoryRepository keeps scans for the lifetime of the process. FileRepository
// builds on it to keep history across CLI runs.
type MemoryRepository struct {
	mu    sync.RWMutex
	scans map[string]repository.ScanRecord
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		scans: make(map[string]repository.ScanRecord),
		now:   time.Now,
	}
}

func (r *MemoryRepository) SaveScan(_ context.Context, input repository.SaveScanInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	createdAt := r.now()
	if prev, ok := r.scans[input.ID]; ok {
		createdAt = prev.CreatedAt
	}
	rec := repository.ScanRecord{
		ID:           input.ID,
		FileName:     input.FileName,
		Status:       input.Status,
		Transcript:   input.Transcript,
		SpeakerName:  input.SpeakerName,
		ErrorMessage: input.ErrorMessage,
		StartedAt:    input.StartedAt,
		EndedAt:      input.EndedAt,
		CreatedAt:    createdAt,
	}
	if input.Confidence != nil {
		c := *input.Confidence
		rec.Confidence = &c
	}
	r.scans[input.ID] = rec
	return nil
}

// restore inserts a record as stored, keeping its timestamps.
func (r *MemoryRepository) restore(rec repository.ScanRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans[rec.ID] = rec
}

func (r *MemoryRepository) ListScans(_ context.Context, limit int) ([]repository.ScanRecord, error) {
	r.mu.RLock()
	list := make([]repository.ScanRecord, 0, len(r.scans))
	for _, rec := range r.scans {
		list = append(list, rec)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b repository.ScanRecord) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *MemoryRepository) GetScan(_ context.Context, id string) (*repository.ScanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.scans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}
