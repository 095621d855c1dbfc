package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// newTestPool connects to TEST_DATABASE_URL; tests are skipped without it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
	defer cancel()
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	t.Cleanup(p.Close)
	if err := p.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}
	return p
}

func TestRunMigration_Idempotent(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := RunMigration(ctx, p); err != nil {
			t.Fatalf("migration run %d failed: %v", i+1, err)
		}
	}
}

func TestPostgresRepository_InsertTranscriptionLog(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()
	if err := RunMigration(ctx, p); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	requestID := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = p.Exec(context.Background(), `DELETE FROM transcription_logs WHERE request_id = $1`, requestID)
	})

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	repo := &PostgresRepository{pool: p}
	got, err := repo.InsertTranscriptionLog(ctx, repository.InsertTranscriptionLogInput{
		RequestID:   requestID,
		Source:      repository.SourceCapture,
		Filename:    "output.wav",
		Extension:   ".wav",
		ContentType: "audio/wav",
		SizeBytes:   88200,
		Outcome:     "bad_input",
		Detail:      "Error processing audio file: unsupported file format",
		Duration:    1250 * time.Millisecond,
		CreatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Fatalf("expected generated uuid id, got %q", got.ID)
	}
	if got.RequestID != requestID || got.Source != repository.SourceCapture || got.Extension != ".wav" {
		t.Fatalf("unexpected log: %+v", got)
	}
	if got.SizeBytes != 88200 || got.DurationMs != 1250 || got.Outcome != "bad_input" {
		t.Fatalf("unexpected log values: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at = %s, want %s", got.CreatedAt, createdAt)
	}

	var count int
	if err := p.QueryRow(ctx, `SELECT COUNT(*) FROM transcription_logs WHERE request_id = $1`, requestID).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored row, got %d", count)
	}
}

func TestPostgresRepository_RejectsUnknownSource(t *testing.T) {
	p := newTestPool(t)
	ctx := context.Background()
	if err := RunMigration(ctx, p); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	repo := &PostgresRepository{pool: p}
	_, err := repo.InsertTranscriptionLog(ctx, repository.InsertTranscriptionLogInput{
		RequestID: "test-" + uuid.NewString(),
		Source:    repository.Source("webhook"),
		Extension: ".webm",
		Outcome:   "success",
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected enum violation for unknown source")
	}
}
