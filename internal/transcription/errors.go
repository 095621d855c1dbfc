package transcription

import (
	"errors"
	"fmt"
	"strings"

	"github.com/foxseedlab/speakeasy/internal/transcriber"
)

type Category int

const (
	CategoryInternal Category = iota
	CategoryAuthentication
	CategoryBadInput
)

func (c Category) String() string {
	switch c {
	case CategoryAuthentication:
		return "authentication"
	case CategoryBadInput:
		return "bad_input"
	default:
		return "internal"
	}
}

const (
	detailInvalidFileType = "Invalid file type. Please upload an audio file."
	detailEmptyFile       = "Uploaded audio file is empty."
	detailAuthentication  = "Transcription service authentication failed. Please check your API key."
	detailBadInputFormat  = "Error processing audio file: %s"
	detailInternalFormat  = "Transcription error: %s"
)

// Error is the user-facing failure of one transcription request.
type Error struct {
	Category Category
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Detail
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badInput(detail string) *Error {
	return &Error{Category: CategoryBadInput, Detail: detail}
}

func internal(err error) *Error {
	return &Error{Category: CategoryInternal, Detail: fmt.Sprintf(detailInternalFormat, err.Error()), Err: err}
}

// Classify maps a remote transcription failure onto a Category. A kind set
// by the backend wins; otherwise the message is matched against substrings,
// which is heuristic and only as reliable as the remote wording.
func Classify(err error) Category {
	var remote *transcriber.RemoteError
	if errors.As(err, &remote) {
		switch remote.Kind {
		case transcriber.KindAuthentication:
			return CategoryAuthentication
		case transcriber.KindBadInput:
			return CategoryBadInput
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"):
		return CategoryAuthentication
	case strings.Contains(msg, "file"), strings.Contains(msg, "format"):
		return CategoryBadInput
	default:
		return CategoryInternal
	}
}

// FromRemote wraps a backend failure with its category and detail text.
func FromRemote(err error) *Error {
	category := Classify(err)
	switch category {
	case CategoryAuthentication:
		return &Error{Category: category, Detail: detailAuthentication, Err: err}
	case CategoryBadInput:
		return &Error{Category: category, Detail: fmt.Sprintf(detailBadInputFormat, err.Error()), Err: err}
	default:
		return internal(err)
	}
}
