package transcriber

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foxseedlab/speakeasy/internal/transcriber"
	"github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

func NewOpenAITranscriber(cfg OpenAIConfig) transcriber.Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &OpenAITranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  strings.TrimSpace(cfg.Model),
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio transcriber.Audio) (string, error) {
	slog.Debug("requesting openai transcription", "model", t.model, "filename", audio.Filename)
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audio.Filename,
		Reader:   audio.Reader,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	return resp.Text, nil
}

func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return &transcriber.RemoteError{Kind: kindFromHTTPStatus(status), Err: err}
}

func kindFromHTTPStatus(status int) transcriber.ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return transcriber.KindAuthentication
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return transcriber.KindBadInput
	default:
		return transcriber.KindUnknown
	}
}
