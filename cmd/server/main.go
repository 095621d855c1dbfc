package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/foxseedlab/speakeasy/external/config"
	"github.com/foxseedlab/speakeasy/external/httpapi"
	metricsimpl "github.com/foxseedlab/speakeasy/external/metrics"
	repositoryimpl "github.com/foxseedlab/speakeasy/external/repository"
	tempaudioimpl "github.com/foxseedlab/speakeasy/external/tempaudio"
	transcriberimpl "github.com/foxseedlab/speakeasy/external/transcriber"
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/tempaudio"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/gin-gonic/gin"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "backend", cfg.TranscribeBackend, "model", cfg.TranscribeModel)
	if cfg.TranscribeBackend == config.BackendOpenAI && cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; transcription requests will fail authentication")
	}

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	sweepTempFiles(cfg, injector)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	tempaudioimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	metricsimpl.RegisterDI(injector)
	transcription.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func sweepTempFiles(cfg *config.Config, injector do.Injector) {
	store := do.MustInvoke[tempaudio.Store](injector)
	removed, err := store.Sweep(cfg.TempFileStaleAfter)
	if err != nil {
		slog.Warn("failed to sweep stale temp audio files", "error", err, "dir", cfg.TempDir)
		return
	}
	if removed > 0 {
		slog.Info("removed stale temp audio files", "count", removed, "dir", cfg.TempDir)
	}
}

func runServer(cfg *config.Config, injector do.Injector) {
	srv, err := do.Invoke[*http.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}
	repo := do.MustInvoke[repository.Repository](injector)
	defer repo.Close()

	done := make(chan error, 1)
	go func() {
		slog.Info("startup: http server listening", "addr", srv.Addr)
		done <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			repo.Close()
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	// in-flight requests finish and remove their temp files before Shutdown returns
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
}
