package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentiscope/config"
	"github.com/spacesedan/sentiscope/internal/analysis"
	"github.com/spacesedan/sentiscope/internal/clients"
	"github.com/spacesedan/sentiscope/internal/handlers"
	"github.com/spacesedan/sentiscope/internal/logging"
	"github.com/spacesedan/sentiscope/internal/monitoring"
	"github.com/spacesedan/sentiscope/internal/posts"
	"github.com/spacesedan/sentiscope/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prediction := clients.NewPredictionClient(cfg)
	svc, err := analysis.New(cfg, prediction)
	if err != nil {
		slog.Error("[Main] Failed to build analyzer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	pipeline := posts.NewPipeline(clients.NewAggregatorClient(cfg), clients.NewRedditClient(cfg))

	var predictionHealth *monitoring.HealthStatus
	if cfg.AnalyzerBackend == config.BackendRemote {
		predictionHealth = &monitoring.HealthStatus{}
		go monitoring.MonitorPredictionHealth(ctx, prediction, cfg.HealthCheckInterval, predictionHealth)
	}

	router := server.NewRouter(server.Dependencies{
		Analyzer: svc,
		Fetcher:  pipeline,
		Health:   handlers.NewHealthHandler(svc.Backend(), predictionHealth),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] Server listening",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env),
			slog.String("backend", svc.Backend()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped unexpectedly", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Server stopped")
}
