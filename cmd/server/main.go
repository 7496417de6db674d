package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/api"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/config"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/httpclient"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/limiter"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/metrics"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/deck"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/orchestrator"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/outline"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Outbound client for Gemini
	httpClient := httpclient.New(httpclient.Options{
		Timeout:    time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.HTTPClient.MaxRetries,
	})

	lim := limiter.New(cfg.Limiter.MaxConcurrent, cfg.Limiter.RatePerSecond)
	m := metrics.New()

	// Init services
	outlineSvc := outline.New(cfg.Gemini.APIKey, cfg.Gemini.Model, httpClient, zapLogger)
	deckSvc := deck.New(zapLogger)
	storageSvc, err := storage.New(cfg.Storage.Type, cfg.Storage.BasePath, cfg.Storage.BaseURL, zapLogger)
	if err != nil {
		zapLogger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	if cfg.Gemini.APIKey == "" {
		zapLogger.Warn("GEMINI_API_KEY is not set, outlines are built locally")
	}

	orch := orchestrator.New(outlineSvc, deckSvc, storageSvc, lim, m, zapLogger).
		WithQueueWait(time.Duration(cfg.Limiter.QueueWaitSeconds) * time.Second)

	router, err := api.NewRouter(orch, storageSvc, m, zapLogger)
	if err != nil {
		zapLogger.Error("failed to init router", "error", err)
		os.Exit(1)
	}

	// The page may be opened from the Telegram webview on another origin.
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
	}

	go func() {
		zapLogger.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", "error", err)
	}
	zapLogger.Info("server stopped")
}
