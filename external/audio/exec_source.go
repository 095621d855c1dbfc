package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/speakeasy/internal/audio"
	"github.com/mattn/go-shellwords"
)

const (
	maxStderrBytes   = 4096
	commandWaitDelay = 2 * time.Second
)

// CommandSource captures audio by running an external recorder that writes
// raw PCM to stdout. {rate} and {channels} in the command are replaced with
// the requested format.
type CommandSource struct {
	command string
}

func NewCommandSource(command string) audio.Source {
	return &CommandSource{command: command}
}

func (s *CommandSource) Open(ctx context.Context, format audio.Format) (io.ReadCloser, error) {
	args, err := s.args(format)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stderr := &limitedBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr
	cmd.WaitDelay = commandWaitDelay
	startInProcessGroup(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("record command stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start record command: %w", err)
	}
	slog.Debug("record command started", "command", args[0], "pid", cmd.Process.Pid)
	return &commandStream{cmd: cmd, stdout: stdout, stderr: stderr, cancel: cancel}, nil
}

func (s *CommandSource) args(format audio.Format) ([]string, error) {
	command := strings.NewReplacer(
		"{rate}", strconv.Itoa(format.SampleRate),
		"{channels}", strconv.Itoa(format.Channels),
	).Replace(s.command)
	args, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse record command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("record command is empty")
	}
	return args, nil
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *limitedBuffer
	cancel context.CancelFunc

	once    sync.Once
	waitErr error
}

func (s *commandStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close stops the recorder and reaps it. Termination caused by Close itself
// is not an error; a recorder that had already failed is.
func (s *commandStream) Close() error {
	s.once.Do(func() {
		s.cancel()
		err := s.cmd.Wait()
		if stoppedByClose(err) {
			return
		}
		s.waitErr = fmt.Errorf("record command failed: %w: %s", err, strings.TrimSpace(s.stderr.String()))
	})
	return s.waitErr
}

func stoppedByClose(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, exec.ErrWaitDelay) {
		return true
	}
	// killed by signal
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == -1
}

type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
