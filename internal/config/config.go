package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	BackendOpenAI            = "openai"
	BackendGoogleCloudSpeech = "google-cloud-speech"
)

// CORSAllowAll in CORS_ALLOWED_ORIGINS allows every origin.
const CORSAllowAll = "*"

type Config struct {
	Env                        string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	TranscribeBackend          string
	TranscribeModel            string
	TranscribeLanguage         string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	HTTPAddr                   string
	HTTPShutdownTimeout        time.Duration
	CORSAllowedOrigins         []string
	MaxUploadBytes             int64
	TempDir                    string
	TempFileStaleAfter         time.Duration
	DatabaseURL                string
	RecordCommand              string
	RecordSampleRate           int
	RecordChannels             int
	RecordMaxDuration          time.Duration
	RecordOutputPath           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.TranscribeBackend {
	case BackendOpenAI:
	case BackendGoogleCloudSpeech:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when TRANSCRIBE_BACKEND=%s", BackendGoogleCloudSpeech)
		}
		if c.GoogleCloudSpeechLocation == "" {
			return fmt.Errorf("GOOGLE_CLOUD_SPEECH_LOCATION is required when TRANSCRIBE_BACKEND=%s", BackendGoogleCloudSpeech)
		}
	default:
		return fmt.Errorf("TRANSCRIBE_BACKEND must be %q or %q, got %q", BackendOpenAI, BackendGoogleCloudSpeech, c.TranscribeBackend)
	}
	if c.HTTPShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.HTTPShutdownTimeout)
	}
	if err := c.validateCORSOrigins(); err != nil {
		return err
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.TempFileStaleAfter <= 0 {
		return fmt.Errorf("TEMP_FILE_STALE_AFTER must be positive, got %s", c.TempFileStaleAfter)
	}
	if c.RecordSampleRate <= 0 {
		return fmt.Errorf("RECORD_SAMPLE_RATE must be positive, got %d", c.RecordSampleRate)
	}
	if c.RecordChannels <= 0 {
		return fmt.Errorf("RECORD_CHANNELS must be positive, got %d", c.RecordChannels)
	}
	if c.RecordMaxDuration <= 0 {
		return fmt.Errorf("RECORD_MAX_DURATION must be positive, got %s", c.RecordMaxDuration)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "TRANSCRIBE_BACKEND", value: c.TranscribeBackend},
		{name: "TRANSCRIBE_MODEL", value: c.TranscribeModel},
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "RECORD_COMMAND", value: c.RecordCommand},
		{name: "RECORD_OUTPUT_PATH", value: c.RecordOutputPath},
	}
}

// validateCORSOrigins accepts "*" or absolute http(s) origins.
func (c *Config) validateCORSOrigins() error {
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin or %q", CORSAllowAll)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin == CORSAllowAll {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must be %q or start with http:// or https://", origin, CORSAllowAll)
		}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// RecordMaxBytes is the PCM byte ceiling of one capture session.
func (c *Config) RecordMaxBytes() int {
	return int(c.RecordMaxDuration.Seconds() * float64(c.RecordSampleRate*c.RecordChannels*2))
}
