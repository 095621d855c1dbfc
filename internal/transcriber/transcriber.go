package transcriber

import (
	"context"
	"io"
)

// Audio is a readable audio file. Filename carries the container extension
// the remote service uses to detect the format.
type Audio struct {
	Filename string
	Reader   io.Reader
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthentication
	KindBadInput
)

// RemoteError tags a backend failure with a structured kind when the SDK
// exposes one. Error() is the remote message, unchanged.
type RemoteError struct {
	Kind ErrorKind
	Err  error
}

func (e *RemoteError) Error() string {
	return e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
