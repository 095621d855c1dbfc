package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	audioimpl "github.com/foxseedlab/speakeasy/external/audio"
	configloader "github.com/foxseedlab/speakeasy/external/config"
	"github.com/foxseedlab/speakeasy/external/console"
	repositoryimpl "github.com/foxseedlab/speakeasy/external/repository"
	tempaudioimpl "github.com/foxseedlab/speakeasy/external/tempaudio"
	transcriberimpl "github.com/foxseedlab/speakeasy/external/transcriber"
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/metrics"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/session"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/samber/do/v2"
)

func main() {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)
	if cfg.TranscribeBackend == config.BackendOpenAI && cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; transcription will fail authentication")
	}

	injector := setupDI(cfg)
	recorder, err := do.Invoke[*session.Recorder](injector)
	if err != nil {
		slog.Error("failed to resolve recorder", "error", err)
		os.Exit(1)
	}
	repo := do.MustInvoke[repository.Repository](injector)
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("recorder ready", "command", cfg.RecordCommand, "sample_rate", cfg.RecordSampleRate, "channels", cfg.RecordChannels, "max_duration", cfg.RecordMaxDuration)
	if err := recorder.Run(ctx); err != nil && !errors.Is(err, session.ErrTriggerClosed) {
		slog.Error("recorder stopped", "error", err)
	}
	slog.Info("recorder exiting")
}

// logs go to stderr so the console prompts on stdout stay readable
func initLogger(cfg *config.Config) {
	logLevel := slog.LevelWarn
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, metrics.NewNoopRecorder())
	tempaudioimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	transcription.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	console.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}
