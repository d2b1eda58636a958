package repository

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("scan not found")

type SaveScanInput struct {
	ID           string
	FileName     string
	Status       ScanStatus
	Transcript   string
	SpeakerName  string
	Confidence   *float64
	ErrorMessage string
	StartedAt    time.Time
	EndedAt      time.Time
}

type ScanRepository interface {
	SaveScan(ctx context.Context, input SaveScanInput) error
	// ListScans returns the newest scans first. limit <= 0 means no limit.
	ListScans(ctx context.Context, limit int) ([]ScanRecord, error)
	GetScan(ctx context.Context, id string) (*ScanRecord, error)
}
