package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/gin-gonic/gin"
)

const (
	detailMissingFile    = "Missing audio file in form field \"file\"."
	detailUnreadableFile = "Uploaded audio file could not be read."
	detailTooLargeFormat = "Uploaded audio file exceeds the %d byte limit."
)

const uploadFormField = "file"

// multipartOverheadBytes is room for boundaries and part headers on top of the file itself.
const multipartOverheadBytes = 1 << 20

type RecordHandler struct {
	service        Transcriber
	maxUploadBytes int64
}

func NewRecordHandler(service Transcriber, maxUploadBytes int64) *RecordHandler {
	return &RecordHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *RecordHandler) record(c *gin.Context) {
	requestID := c.GetString(requestIDKey)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverheadBytes)

	payload, err := h.readPayload(c)
	if form := c.Request.MultipartForm; form != nil {
		defer func() {
			_ = form.RemoveAll()
		}()
	}
	if err != nil {
		var rejected *uploadError
		if !errors.As(err, &rejected) {
			rejected = &uploadError{detail: detailUnreadableFile, err: err}
		}
		slog.Info("rejected upload", "request_id", requestID, "detail", rejected.detail, "error", rejected.err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": rejected.detail})
		return
	}

	result, err := h.service.Transcribe(c.Request.Context(), requestID, repository.SourceUpload, payload)
	if err != nil {
		writeTranscriptionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// uploadError rejects a request before it reaches the pipeline.
type uploadError struct {
	detail string
	err    error
}

func (e *uploadError) Error() string {
	if e.err == nil {
		return e.detail
	}
	return fmt.Sprintf("%s: %v", e.detail, e.err)
}

func (e *uploadError) Unwrap() error {
	return e.err
}

func (h *RecordHandler) readPayload(c *gin.Context) (transcription.AudioPayload, error) {
	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return transcription.AudioPayload{}, h.tooLargeError(err)
		}
		return transcription.AudioPayload{}, &uploadError{detail: detailMissingFile, err: err}
	}
	if fh.Size > h.maxUploadBytes {
		return transcription.AudioPayload{}, h.tooLargeError(nil)
	}
	f, err := fh.Open()
	if err != nil {
		return transcription.AudioPayload{}, &uploadError{detail: detailUnreadableFile, err: err}
	}
	defer func() {
		_ = f.Close()
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		return transcription.AudioPayload{}, &uploadError{detail: detailUnreadableFile, err: err}
	}
	return transcription.AudioPayload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

func (h *RecordHandler) tooLargeError(err error) error {
	return &uploadError{detail: fmt.Sprintf(detailTooLargeFormat, h.maxUploadBytes), err: err}
}

func writeTranscriptionError(c *gin.Context, err error) {
	var te *transcription.Error
	if !errors.As(err, &te) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Transcription error: %v", err)})
		return
	}
	c.JSON(statusForCategory(te.Category), gin.H{"detail": te.Detail})
}

func statusForCategory(category transcription.Category) int {
	switch category {
	case transcription.CategoryAuthentication:
		return http.StatusUnauthorized
	case transcription.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
