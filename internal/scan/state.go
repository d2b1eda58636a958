package scan

import "time"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusStreaming Status = "streaming"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Speaker is set only from a parsed "Author:" frame, so a confidence never
// exists without a name. Confidence is within [0, 1].
type Speaker struct {
	Name       string
	Confidence float64
}

// State is a snapshot of one scan session.
type State struct {
	SessionID     string
	FileName      string
	Status        Status
	Transcript    string
	Speaker       *Speaker
	Err           error
	StartedAt     time.Time
	EndedAt       time.Time
	FramesApplied int
}

func (s State) Clone() State {
	if s.Speaker != nil {
		sp := *s.Speaker
		s.Speaker = &sp
	}
	return s
}

func (s State) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
