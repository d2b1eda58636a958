package repository

import "time"

type ScanStatus string

const (
	ScanStatusDone   ScanStatus = "done"
	ScanStatusFailed ScanStatus = "failed"
)

type ScanRecord struct {
	ID           string     `json:"id"`
	FileName     string     `json:"file_name"`
	Status       ScanStatus `json:"status"`
	Transcript   string     `json:"transcript"`
	SpeakerName  string     `json:"speaker_name,omitempty"`
	Confidence   *float64   `json:"confidence,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      time.Time  `json:"ended_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
