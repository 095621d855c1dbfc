package repository

import (
	"context"

	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertTranscriptionLog(ctx context.Context, input repository.InsertTranscriptionLogInput) (*repository.TranscriptionLog, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transcription_logs (request_id, source, filename, extension, content_type, size_bytes, outcome, detail, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, request_id, source, filename, extension, content_type, size_bytes, outcome, detail, duration_ms, created_at`,
		input.RequestID, string(input.Source), input.Filename, input.Extension, input.ContentType,
		input.SizeBytes, input.Outcome, input.Detail, input.Duration.Milliseconds(), input.CreatedAt)
	var l repository.TranscriptionLog
	var source string
	err := row.Scan(&l.ID, &l.RequestID, &source, &l.Filename, &l.Extension, &l.ContentType,
		&l.SizeBytes, &l.Outcome, &l.Detail, &l.DurationMs, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Source = repository.Source(source)
	return &l, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}
