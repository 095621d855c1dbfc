package console

import (
	"bufio"
	"context"
	"io"

	"github.com/foxseedlab/speakeasy/internal/session"
)

// LineTrigger fires once per line read from the operator's terminal.
type LineTrigger struct {
	lines  chan struct{}
	closed chan struct{}
}

func NewLineTrigger(r io.Reader) *LineTrigger {
	t := &LineTrigger{
		lines:  make(chan struct{}),
		closed: make(chan struct{}),
	}
	go t.scan(r)
	return t
}

func (t *LineTrigger) scan(r io.Reader) {
	defer close(t.closed)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		t.lines <- struct{}{}
	}
}

// Wait blocks until the next line. A cancelled Wait leaves the line for the
// next caller.
func (t *LineTrigger) Wait(ctx context.Context) error {
	select {
	case <-t.lines:
		return nil
	case <-t.closed:
		return session.ErrTriggerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ session.Trigger = (*LineTrigger)(nil)
