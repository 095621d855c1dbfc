package repository

import "time"

type Source string

const (
	SourceUpload  Source = "upload"
	SourceCapture Source = "capture"
)

// TranscriptionLog is the metadata of one request. The transcript itself is
// never stored.
type TranscriptionLog struct {
	ID          string
	RequestID   string
	Source      Source
	Filename    string
	Extension   string
	ContentType string
	SizeBytes   int
	Outcome     string
	Detail      string
	DurationMs  int64
	CreatedAt   time.Time
}
