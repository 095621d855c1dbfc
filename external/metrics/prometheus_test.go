package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPrometheusRecorder_ExposesCounters(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveTranscription("success", 200*time.Millisecond)
	r.ObserveTranscription("success", time.Second)
	r.ObserveTranscription("bad_input", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`speakeasy_transcriptions_total{outcome="success"} 2`,
		`speakeasy_transcriptions_total{outcome="bad_input"} 1`,
		`speakeasy_transcription_duration_seconds_count{outcome="success"} 2`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
