package transcriber

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/speakeasy/internal/transcriber"
)

func TestOpenAITranscribe_Success(t *testing.T) {
	var gotModel, gotFilename string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		gotFilename = header.Filename
		gotBody, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer server.Close()

	stt := NewOpenAITranscriber(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-transcribe"})
	text, err := stt.Transcribe(context.Background(), transcriber.Audio{
		Filename: "speakeasy-123.webm",
		Reader:   bytes.NewReader([]byte("webm-bytes")),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotModel != "gpt-4o-transcribe" {
		t.Fatalf("unexpected model: %s", gotModel)
	}
	if gotFilename != "speakeasy-123.webm" {
		t.Fatalf("unexpected filename: %s", gotFilename)
	}
	if string(gotBody) != "webm-bytes" {
		t.Fatalf("unexpected body: %q", gotBody)
	}
}

func TestOpenAITranscribe_ErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   transcriber.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, transcriber.KindAuthentication},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"Invalid file format.","type":"invalid_request_error"}}`, transcriber.KindBadInput},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"The server had an error","type":"server_error"}}`, transcriber.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			stt := NewOpenAITranscriber(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-transcribe"})
			_, err := stt.Transcribe(context.Background(), transcriber.Audio{Filename: "a.wav", Reader: strings.NewReader("x")})
			var remote *transcriber.RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("expected RemoteError, got %T %v", err, err)
			}
			if remote.Kind != tc.want {
				t.Fatalf("unexpected kind: got %d want %d", remote.Kind, tc.want)
			}
		})
	}
}

func TestKindFromHTTPStatus(t *testing.T) {
	if kindFromHTTPStatus(http.StatusForbidden) != transcriber.KindAuthentication {
		t.Fatal("expected 403 to be authentication")
	}
	if kindFromHTTPStatus(0) != transcriber.KindUnknown {
		t.Fatal("expected missing status to be unknown")
	}
}
