package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultPollInterval    = 3 * time.Second
	defaultPollMaxAttempts = 20
)

type fetchFunc func(ctx context.Context, scanID string) (*Result, bool, error)

// Scanner submits posts and text for analysis and polls until a result is
// available.
type Scanner struct {
	client      Client
	interval    time.Duration
	maxAttempts int
	newID       func() string
}

func NewScanner(client Client, interval time.Duration, maxAttempts int) *Scanner {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultPollMaxAttempts
	}
	return &Scanner{
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
		newID:       uuid.NewString,
	}
}

func (s *Scanner) ScanPost(ctx context.Context, in PostInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	scanID, err := s.client.SubmitPost(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to submit post: %w", err)
	}
	slog.Info("post submitted for analysis", "scan_id", scanID, "media", in.Media.Name())
	return s.poll(ctx, scanID, s.client.FetchPostResult)
}

// ScanText generates the scan id on the client; the backend stores the result
// under it.
func (s *Scanner) ScanText(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("text is required"))
	}
	scanID := s.newID()
	if err := s.client.SubmitText(ctx, scanID, text); err != nil {
		return nil, fmt.Errorf("failed to submit text: %w", err)
	}
	slog.Info("text submitted for analysis", "scan_id", scanID, "length", len(text))
	return s.poll(ctx, scanID, s.client.FetchTextResult)
}

func (s *Scanner) History(ctx context.Context) ([]Result, error) {
	return s.client.ListPostScans(ctx)
}

func (s *Scanner) poll(ctx context.Context, scanID string, fetch fetchFunc) (*Result, error) {
	limiter := rate.NewLimiter(rate.Every(s.interval), 1)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		result, ready, err := fetch(ctx, scanID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch scan %s: %w", scanID, err)
		}
		if ready {
			if result.ScanID == "" {
				result.ScanID = scanID
			}
			return result, nil
		}
		slog.Debug("analysis in progress", "scan_id", scanID, "attempt", attempt)
	}
	return nil, fmt.Errorf("%w after %d attempts: scan %s", ErrPollTimeout, s.maxAttempts, scanID)
}
