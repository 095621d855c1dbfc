package transcription

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/foxseedlab/speakeasy/internal/audioformat"
	"github.com/foxseedlab/speakeasy/internal/metrics"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/tempaudio"
	"github.com/foxseedlab/speakeasy/internal/transcriber"
)

const (
	outcomeSuccess  = "success"
	logWriteTimeout = 5 * time.Second
)

// AudioPayload is one caller-supplied recording. ContentType and Filename are
// advisory metadata.
type AudioPayload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type Result struct {
	Transcript string `json:"transcript"`
}

type Service struct {
	store       tempaudio.Store
	transcriber transcriber.Transcriber
	repo        repository.TranscriptionLogRepository
	metrics     metrics.Recorder
}

func NewService(store tempaudio.Store, stt transcriber.Transcriber, repo repository.TranscriptionLogRepository, m metrics.Recorder) *Service {
	return &Service{
		store:       store,
		transcriber: stt,
		repo:        repo,
		metrics:     m,
	}
}

// Transcribe runs one payload through the pipeline. Every failure is an *Error.
// The remote call is detached from ctx cancellation and runs to completion.
func (s *Service) Transcribe(ctx context.Context, requestID string, source repository.Source, payload AudioPayload) (Result, error) {
	started := time.Now()
	ext := audioformat.Resolve(payload.Filename, payload.ContentType)
	result, err := s.transcribe(ctx, requestID, ext, payload)
	elapsed := time.Since(started)

	outcome, detail := outcomeSuccess, ""
	if err != nil {
		outcome, detail = err.Category.String(), err.Detail
		slog.Warn("transcription failed", "request_id", requestID, "source", source, "category", outcome, "error", err, "elapsed", elapsed)
	} else {
		slog.Info("transcription completed", "request_id", requestID, "source", source, "extension", ext, "bytes", len(payload.Data), "transcript_chars", len(result.Transcript), "elapsed", elapsed)
	}
	s.metrics.ObserveTranscription(outcome, elapsed)
	s.writeLog(ctx, repository.InsertTranscriptionLogInput{
		RequestID:   requestID,
		Source:      source,
		Filename:    payload.Filename,
		Extension:   ext,
		ContentType: payload.ContentType,
		SizeBytes:   len(payload.Data),
		Outcome:     outcome,
		Detail:      detail,
		Duration:    elapsed,
		CreatedAt:   started,
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (s *Service) transcribe(ctx context.Context, requestID, ext string, payload AudioPayload) (Result, *Error) {
	if !audioformat.IsAudio(payload.ContentType) {
		return Result{}, badInput(detailInvalidFileType)
	}
	if len(payload.Data) == 0 {
		return Result{}, badInput(detailEmptyFile)
	}
	if !audioformat.IsSupported(ext) {
		slog.Debug("resolved extension is not a known service format", "request_id", requestID, "extension", ext)
	}

	var (
		text      string
		remoteErr error
	)
	storeErr := s.store.WithFile(payload.Data, ext, func(f *os.File) error {
		text, remoteErr = s.transcriber.Transcribe(context.WithoutCancel(ctx), transcriber.Audio{
			Filename: filepath.Base(f.Name()),
			Reader:   f,
		})
		return remoteErr
	})
	switch {
	case remoteErr != nil:
		return Result{}, FromRemote(remoteErr)
	case storeErr != nil:
		return Result{}, internal(storeErr)
	}
	return Result{Transcript: text}, nil
}

func (s *Service) writeLog(ctx context.Context, input repository.InsertTranscriptionLogInput) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
	defer cancel()
	if _, err := s.repo.InsertTranscriptionLog(ctx, input); err != nil {
		slog.Error("failed to insert transcription log", "error", err, "request_id", input.RequestID)
	}
}
