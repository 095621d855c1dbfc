package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/foxseedlab/speakeasy/internal/audio"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/google/uuid"
)

const (
	captureChunkBytes = 32 * 1024
	wavContentType    = "audio/wav"
)

var (
	ErrTriggerClosed  = errors.New("operator input closed")
	ErrEmptyRecording = errors.New("no audio was captured")
)

type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Trigger delivers the operator's start and stop signals.
type Trigger interface {
	Wait(ctx context.Context) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, requestID string, source repository.Source, payload transcription.AudioPayload) (transcription.Result, error)
}

type RecorderConfig struct {
	Format     audio.Format
	MaxBytes   int
	OutputPath string
}

type Recording struct {
	Path      string
	Bytes     int
	Duration  time.Duration
	Truncated bool
}

// Recorder runs one capture session at a time: Idle until a start signal,
// Recording until a stop signal, then the WAV file is transcribed.
type Recorder struct {
	cfg     RecorderConfig
	source  audio.Source
	trigger Trigger
	wav     audio.WAVWriter
	service Transcriber
	out     io.Writer

	mu    sync.Mutex
	state State
}

func NewRecorder(cfg RecorderConfig, source audio.Source, trigger Trigger, wav audio.WAVWriter, service Transcriber, out io.Writer) *Recorder {
	return &Recorder{
		cfg:     cfg,
		source:  source,
		trigger: trigger,
		wav:     wav,
		service: service,
		out:     out,
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
	slog.Debug("recorder state changed", "state", s.String())
}

// Run repeats capture sessions until ctx is cancelled or operator input ends.
// A failed session is printed and does not stop the loop.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		err := r.RunOnce(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrTriggerClosed):
			return err
		case err != nil:
			slog.Error("capture session failed", "error", err)
			fmt.Fprint(r.out, printError(err))
		}
	}
}

// RunOnce records one session and prints its transcript.
func (r *Recorder) RunOnce(ctx context.Context) error {
	rec, err := r.Record(ctx)
	if err != nil {
		return err
	}
	text, err := r.transcribe(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, printTranscript(text))
	return nil
}

func (r *Recorder) transcribe(ctx context.Context, rec Recording) (string, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}
	requestID := uuid.NewString()
	slog.Info("submitting recording", "request_id", requestID, "path", rec.Path, "bytes", len(data), "duration", rec.Duration)
	result, err := r.service.Transcribe(ctx, requestID, repository.SourceCapture, transcription.AudioPayload{
		Data:        data,
		ContentType: wavContentType,
		Filename:    filepath.Base(rec.Path),
	})
	if err != nil {
		return "", err
	}
	return result.Transcript, nil
}

// Record waits for a start signal, captures until a stop signal and writes
// the audio to the configured WAV path, overwriting any previous session.
func (r *Recorder) Record(ctx context.Context) (Recording, error) {
	fmt.Fprintln(r.out, messagePressToStart)
	if err := r.trigger.Wait(ctx); err != nil {
		return Recording{}, err
	}

	r.setState(StateRecording)
	defer r.setState(StateIdle)
	fmt.Fprintln(r.out, messageRecording)

	buf, err := r.capture(ctx)
	fmt.Fprintln(r.out, messageStopping)
	fmt.Fprintln(r.out)
	if err != nil {
		return Recording{}, err
	}

	pcm := buf.frames(r.cfg.Format.FrameBytes())
	if len(pcm) == 0 {
		return Recording{}, ErrEmptyRecording
	}
	if err := r.wav.WriteWAV(r.cfg.OutputPath, r.cfg.Format, pcm); err != nil {
		return Recording{}, err
	}
	rec := Recording{
		Path:      r.cfg.OutputPath,
		Bytes:     len(pcm),
		Duration:  time.Duration(float64(len(pcm)) / float64(r.cfg.Format.BytesPerSecond()) * float64(time.Second)),
		Truncated: buf.truncated,
	}
	slog.Info("recording saved", "path", rec.Path, "bytes", rec.Bytes, "duration", rec.Duration, "truncated", rec.Truncated)
	return rec, nil
}

func (r *Recorder) capture(ctx context.Context) (*captureBuffer, error) {
	captureCtx, stopCapture := context.WithCancel(ctx)
	defer stopCapture()

	stream, err := r.source.Open(captureCtx, r.cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}

	buf := &captureBuffer{max: r.cfg.MaxBytes, onFull: func() {
		fmt.Fprintln(r.out, messageMaxDuration)
	}}
	readDone := make(chan error, 1)
	go func() {
		readDone <- buf.fill(stream)
	}()

	waitCtx, cancelWait := context.WithCancel(ctx)
	defer cancelWait()
	stopped := make(chan error, 1)
	go func() {
		stopped <- r.trigger.Wait(waitCtx)
	}()

	select {
	case err := <-stopped:
		stopCapture()
		if closeErr := stream.Close(); closeErr != nil {
			slog.Debug("audio source close after stop", "error", closeErr)
		}
		<-readDone
		if err != nil {
			return nil, err
		}
		return buf, nil
	case readErr := <-readDone:
		// the source ended on its own before the operator stopped
		cancelWait()
		<-stopped
		stopCapture()
		closeErr := stream.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read audio source: %w", readErr)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return buf, nil
	}
}

// captureBuffer grows with the audio actually captured, up to max bytes.
// Audio beyond the ceiling is drained and dropped.
type captureBuffer struct {
	data      []byte
	max       int
	truncated bool
	onFull    func()
}

func (b *captureBuffer) fill(r io.Reader) error {
	chunk := make([]byte, captureChunkBytes)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			b.append(chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (b *captureBuffer) append(p []byte) {
	room := b.max - len(b.data)
	if room <= 0 {
		return
	}
	if len(p) > room {
		p = p[:room]
		b.truncated = true
		if b.onFull != nil {
			b.onFull()
		}
	}
	b.data = append(b.data, p...)
}

// frames drops a trailing partial frame.
func (b *captureBuffer) frames(frameBytes int) []byte {
	return b.data[:len(b.data)-len(b.data)%frameBytes]
}
