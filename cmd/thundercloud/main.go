package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cbwatch/thundercloud-alerts/internal/api"
	"github.com/cbwatch/thundercloud-alerts/internal/cache"
	"github.com/cbwatch/thundercloud-alerts/internal/config"
	"github.com/cbwatch/thundercloud-alerts/internal/logging"
	"github.com/cbwatch/thundercloud-alerts/internal/notify"
	"github.com/cbwatch/thundercloud-alerts/internal/observability"
	"github.com/cbwatch/thundercloud-alerts/internal/orchestrator"
	"github.com/cbwatch/thundercloud-alerts/internal/repository"
	"github.com/cbwatch/thundercloud-alerts/internal/weather"
	"github.com/cbwatch/thundercloud-alerts/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	client := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout, cfg.Weather.RequestsPerSecond)
	fetcher := weather.NewFetcher(client, cfg.Weather.ChunkSize, cfg.Weather.ChunkDelay, cfg.Weather.CallDelay, clock, metrics)
	weatherCache := cache.New(db, cfg.Cache.TTL, clock, metrics)

	var sender notify.Sender
	if cfg.Firebase.CredentialsPath != "" {
		fcm, err := notify.NewFCMSender(ctx, cfg.Firebase.CredentialsPath, cfg.Firebase.ProjectID)
		if err != nil {
			logging.Fatalf("Failed to initialize FCM: %v", err)
		}
		sender = fcm
	} else {
		slog.Warn("no firebase credentials configured, pushes will only be logged")
		sender = notify.LogSender{}
	}
	dispatcher := notify.NewDispatcher(sender, clock, metrics)

	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.BufferSize)

	orch, err := orchestrator.New(cfg, db, weatherCache, fetcher, dispatcher, pool, clock, metrics)
	if err != nil {
		logging.Fatalf("Failed to initialize orchestrator: %v", err)
	}
	orch.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(orch, weatherCache, db, clock)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	orch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
