package transcription

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tempaudioimpl "github.com/foxseedlab/speakeasy/external/tempaudio"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/transcriber"
)

type mockTranscriber struct {
	text     string
	err      error
	calls    int
	filename string
	body     []byte
	ctxErr   error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio transcriber.Audio) (string, error) {
	m.calls++
	m.filename = audio.Filename
	m.body, _ = io.ReadAll(audio.Reader)
	m.ctxErr = ctx.Err()
	return m.text, m.err
}

type mockRepository struct {
	mu      sync.Mutex
	inserts []repository.InsertTranscriptionLogInput
	err     error
}

func (m *mockRepository) InsertTranscriptionLog(_ context.Context, input repository.InsertTranscriptionLogInput) (*repository.TranscriptionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts = append(m.inserts, input)
	if m.err != nil {
		return nil, m.err
	}
	return &repository.TranscriptionLog{ID: "log-1", RequestID: input.RequestID, Outcome: input.Outcome}, nil
}

type mockMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockMetrics) ObserveTranscription(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

type fixture struct {
	dir     string
	stt     *mockTranscriber
	repo    *mockRepository
	metrics *mockMetrics
	service *Service
}

func newFixture(t *testing.T, stt *mockTranscriber) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{dir: dir, stt: stt, repo: &mockRepository{}, metrics: &mockMetrics{}}
	f.service = NewService(tempaudioimpl.NewFileStore(dir), stt, f.repo, f.metrics)
	return f
}

func (f *fixture) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no temp files, found %d", len(entries))
	}
}

func asError(t *testing.T, err error) *Error {
	t.Helper()
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	return te
}

func TestTranscribe_Success(t *testing.T) {
	f := newFixture(t, &mockTranscriber{text: "hello world"})
	payload := AudioPayload{Data: []byte("RIFF....WAVE"), ContentType: "audio/wav", Filename: "take.WAV"}

	result, err := f.service.Transcribe(context.Background(), "req-1", repository.SourceUpload, payload)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Transcript != "hello world" {
		t.Fatalf("unexpected transcript: %q", result.Transcript)
	}
	if string(f.stt.body) != "RIFF....WAVE" {
		t.Fatalf("remote received different bytes: %q", f.stt.body)
	}
	if !strings.HasSuffix(f.stt.filename, ".wav") || !strings.HasPrefix(f.stt.filename, "speakeasy-") {
		t.Fatalf("unexpected remote filename: %s", f.stt.filename)
	}
	f.assertNoTempFiles(t)
	if len(f.repo.inserts) != 1 || f.repo.inserts[0].Outcome != "success" || f.repo.inserts[0].Extension != ".wav" {
		t.Fatalf("unexpected log inserts: %+v", f.repo.inserts)
	}
	if len(f.metrics.outcomes) != 1 || f.metrics.outcomes[0] != "success" {
		t.Fatalf("unexpected metrics: %v", f.metrics.outcomes)
	}
}

func TestTranscribe_RemoteFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		want       Category
		detailHint string
	}{
		{"auth", errors.New("invalid API key"), CategoryAuthentication, "authentication"},
		{"bad input", errors.New("unsupported file format"), CategoryBadInput, "unsupported file format"},
		{"internal", errors.New("upstream exploded"), CategoryInternal, "upstream exploded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, &mockTranscriber{err: tc.err})
			_, err := f.service.Transcribe(context.Background(), "req", repository.SourceUpload, AudioPayload{Data: []byte("x"), ContentType: "audio/webm"})
			te := asError(t, err)
			if te.Category != tc.want {
				t.Fatalf("unexpected category: %s", te.Category)
			}
			if !strings.Contains(te.Detail, tc.detailHint) {
				t.Fatalf("detail %q does not mention %q", te.Detail, tc.detailHint)
			}
			f.assertNoTempFiles(t)
			if f.repo.inserts[0].Outcome != tc.want.String() {
				t.Fatalf("unexpected logged outcome: %s", f.repo.inserts[0].Outcome)
			}
		})
	}
}

func TestTranscribe_RejectsNonAudioBeforeStorage(t *testing.T) {
	f := newFixture(t, &mockTranscriber{text: "never"})
	_, err := f.service.Transcribe(context.Background(), "req", repository.SourceUpload, AudioPayload{Data: []byte("hello"), ContentType: "text/plain", Filename: "notes.wav"})
	te := asError(t, err)
	if te.Category != CategoryBadInput || te.Detail != detailInvalidFileType {
		t.Fatalf("unexpected error: %+v", te)
	}
	if f.stt.calls != 0 {
		t.Fatal("transcriber must not be called for non-audio content")
	}
	f.assertNoTempFiles(t)
}

func TestTranscribe_RejectsEmptyPayload(t *testing.T) {
	f := newFixture(t, &mockTranscriber{text: "never"})
	_, err := f.service.Transcribe(context.Background(), "req", repository.SourceUpload, AudioPayload{ContentType: "audio/webm"})
	te := asError(t, err)
	if te.Category != CategoryBadInput || te.Detail != detailEmptyFile {
		t.Fatalf("unexpected error: %+v", te)
	}
	if f.stt.calls != 0 {
		t.Fatal("transcriber must not be called for empty payload")
	}
}

func TestTranscribe_StorageFailureIsInternal(t *testing.T) {
	stt := &mockTranscriber{text: "never"}
	service := NewService(tempaudioimpl.NewFileStore(t.TempDir()+"/missing"), stt, &mockRepository{}, &mockMetrics{})
	_, err := service.Transcribe(context.Background(), "req", repository.SourceUpload, AudioPayload{Data: []byte("x"), ContentType: "audio/webm", Filename: "bad format file.webm"})
	te := asError(t, err)
	if te.Category != CategoryInternal {
		t.Fatalf("expected local storage failure to be internal, got %s", te.Category)
	}
	if stt.calls != 0 {
		t.Fatal("transcriber must not be called when storage fails")
	}
}

func TestTranscribe_RemoteCallIgnoresCancellation(t *testing.T) {
	f := newFixture(t, &mockTranscriber{text: "done"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := f.service.Transcribe(ctx, "req", repository.SourceUpload, AudioPayload{Data: []byte("x"), ContentType: "audio/webm"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Transcript != "done" || f.stt.ctxErr != nil {
		t.Fatalf("expected remote call to see a live context, got %v", f.stt.ctxErr)
	}
}

func TestTranscribe_LogFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t, &mockTranscriber{text: "ok"})
	f.repo.err = errors.New("db down")
	if _, err := f.service.Transcribe(context.Background(), "req", repository.SourceCapture, AudioPayload{Data: []byte("x"), ContentType: "audio/wav"}); err != nil {
		t.Fatalf("expected log failure to be swallowed, got %v", err)
	}
}

func TestTranscribe_ConcurrentRequestsUseDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	seen := map[string]bool{}
	stt := transcriberFunc(func(_ context.Context, audio transcriber.Audio) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if seen[audio.Filename] {
			return "", errors.New("duplicate temp file")
		}
		seen[audio.Filename] = true
		return "ok", nil
	})
	service := NewService(tempaudioimpl.NewFileStore(dir), stt, &mockRepository{}, &mockMetrics{})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Transcribe(context.Background(), "req", repository.SourceUpload, AudioPayload{Data: []byte("x"), ContentType: "audio/webm"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no temp files, found %d", len(entries))
	}
}

type transcriberFunc func(ctx context.Context, audio transcriber.Audio) (string, error)

func (f transcriberFunc) Transcribe(ctx context.Context, audio transcriber.Audio) (string, error) {
	return f(ctx, audio)
}
