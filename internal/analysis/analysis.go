package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPollTimeout  = errors.New("analysis timed out")
)

type Entities struct {
	Persons       []string `json:"persons"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
	Events        []string `json:"events"`
}

// Result is a finished truth scan as stored by the backend.
type Result struct {
	ScanID         string   `json:"scan_id"`
	Caption        string   `json:"caption,omitempty"`
	TruthSummary   string   `json:"truth_summary"`
	Score          float64  `json:"score"`
	MismatchReason string   `json:"mismatch_reason"`
	Entities       Entities `json:"entities"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

type Media struct {
	FileName string
	MIMEType string
	Data     []byte
}

func (m Media) Name() string {
	if m.FileName == "" {
		return "media"
	}
	return filepath.Base(m.FileName)
}

type PostInput struct {
	Caption string
	Media   Media
}

func (in PostInput) Validate() error {
	if strings.TrimSpace(in.Caption) == "" {
		return errors.Join(ErrInvalidInput, errors.New("caption is required"))
	}
	if len(in.Media.Data) == 0 {
		return errors.Join(ErrInvalidInput, errors.New("media file is required"))
	}
	return nil
}

// Client is the backend's truth scanner surface. Fetch methods report
// ready=false while the job is still running.
type Client interface {
	SubmitPost(ctx context.Context, in PostInput) (scanID string, err error)
	FetchPostResult(ctx context.Context, scanID string) (result *Result, ready bool, err error)
	SubmitText(ctx context.Context, scanID, text string) error
	FetchTextResult(ctx context.Context, scanID string) (result *Result, ready bool, err error)
	ListPostScans(ctx context.Context) ([]Result, error)
}
