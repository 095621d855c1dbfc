package repository

import (
	"context"

	"github.com/foxseedlab/speakeasy/internal/repository"
)

// NoopRepository is used when DATABASE_URL is not set.
type NoopRepository struct{}

func NewNoopRepository() repository.Repository {
	return NoopRepository{}
}

func (NoopRepository) InsertTranscriptionLog(_ context.Context, input repository.InsertTranscriptionLogInput) (*repository.TranscriptionLog, error) {
	return &repository.TranscriptionLog{
		RequestID:   input.RequestID,
		Source:      input.Source,
		Filename:    input.Filename,
		Extension:   input.Extension,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Outcome:     input.Outcome,
		Detail:      input.Detail,
		DurationMs:  input.Duration.Milliseconds(),
		CreatedAt:   input.CreatedAt,
	}, nil
}

func (NoopRepository) Close() {}
