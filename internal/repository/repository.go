package repository

import (
	"context"
	"time"
)

type InsertTranscriptionLogInput struct {
	RequestID   string
	Source      Source
	Filename    string
	Extension   string
	ContentType string
	SizeBytes   int
	Outcome     string
	Detail      string
	Duration    time.Duration
	CreatedAt   time.Time
}

type TranscriptionLogRepository interface {
	InsertTranscriptionLog(ctx context.Context, input InsertTranscriptionLogInput) (*TranscriptionLog, error)
}

type Repository interface {
	TranscriptionLogRepository
	Close()
}
