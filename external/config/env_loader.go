package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/speakeasy/internal/config"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type envConfig struct {
	Env                        string        `env:"ENV" envDefault:"production"`
	OpenAIAPIKey               string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL              string        `env:"OPENAI_BASE_URL"`
	TranscribeBackend          string        `env:"TRANSCRIBE_BACKEND" envDefault:"openai"`
	TranscribeModel            string        `env:"TRANSCRIBE_MODEL" envDefault:"gpt-4o-transcribe"`
	TranscribeLanguage         string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"en-US"`
	GoogleCloudProjectID       string        `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string        `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string        `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	HTTPAddr                   string        `env:"HTTP_ADDR" envDefault:":8000"`
	HTTPShutdownTimeout        time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins         []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadBytes             int64         `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`
	TempDir                    string        `env:"TEMP_DIR"`
	TempFileStaleAfter         time.Duration `env:"TEMP_FILE_STALE_AFTER" envDefault:"1h"`
	DatabaseURL                string        `env:"DATABASE_URL"`
	RecordCommand              string        `env:"RECORD_COMMAND" envDefault:"arecord -q -t raw -f S16_LE -c {channels} -r {rate}"`
	RecordSampleRate           int           `env:"RECORD_SAMPLE_RATE" envDefault:"44100"`
	RecordChannels             int           `env:"RECORD_CHANNELS" envDefault:"1"`
	RecordMaxDuration          time.Duration `env:"RECORD_MAX_DURATION" envDefault:"5m"`
	RecordOutputPath           string        `env:"RECORD_OUTPUT_PATH" envDefault:"output.wav"`
}

// Load reads an optional env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*internalconfig.Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		TranscribeBackend:          raw.TranscribeBackend,
		TranscribeModel:            raw.TranscribeModel,
		TranscribeLanguage:         raw.TranscribeLanguage,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		HTTPAddr:                   raw.HTTPAddr,
		HTTPShutdownTimeout:        raw.HTTPShutdownTimeout,
		CORSAllowedOrigins:         trimOrigins(raw.CORSAllowedOrigins),
		MaxUploadBytes:             raw.MaxUploadBytes,
		TempDir:                    raw.TempDir,
		TempFileStaleAfter:         raw.TempFileStaleAfter,
		DatabaseURL:                raw.DatabaseURL,
		RecordCommand:              raw.RecordCommand,
		RecordSampleRate:           raw.RecordSampleRate,
		RecordChannels:             raw.RecordChannels,
		RecordMaxDuration:          raw.RecordMaxDuration,
		RecordOutputPath:           raw.RecordOutputPath,
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
