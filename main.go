/*
Package main runs the RSS feed tools HTTP server.

The server parses RSS and Atom feeds on demand via the `gofeed` library and
returns them as JSON. Nothing is stored between requests.

Run the application:

	$ go run .

Endpoints:
  - GET /parse_rss?url=<rss-url>: Fetch and parse a feed.
  - GET /feeds: Retrieve predefined RSS feed sources.
  - GET /health, /health/live, /health/ready: Health probes.
  - GET /metrics: Prometheus metrics.
  - GET /swagger/: API documentation.
*/
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-tools/config"
	"github.com/Nexora-Open-Source/rss-feed-tools/middleware"
	"github.com/Nexora-Open-Source/rss-feed-tools/monitoring"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// @title RSS Feed Tools API
// @version 1.0
// @description Parses RSS and Atom feeds on demand and returns them as JSON.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// Initialize structured logger
	middleware.InitLogger()

	// Initialize configuration and services
	appConfig, err := config.NewAppConfig()
	if err != nil {
		middleware.Logger.WithError(err).Fatal("Failed to initialize application configuration")
	}
	defer appConfig.Services.Close()
	cfg := appConfig.Config

	tracerProvider, err := monitoring.InitTracing(cfg.TracingConfig.ServiceName, cfg.TracingConfig.JaegerEndpoint)
	if err != nil {
		middleware.Logger.WithError(err).Fatal("Failed to initialize tracing")
	}

	alertManager := monitoring.NewAlertManager(middleware.Logger, monitoring.DefaultFeedStats, monitoring.AlertConfig{
		EvalInterval:         cfg.AlertConfig.EvalInterval,
		FailureRateThreshold: cfg.AlertConfig.FailureRateThreshold,
		LatencyThreshold:     cfg.AlertConfig.LatencyThreshold,
		MinSamples:           cfg.AlertConfig.MinSamples,
	})
	alertManager.Start()
	defer alertManager.Stop()

	handler, err := appConfig.Services.Container.GetHandler()
	if err != nil {
		middleware.Logger.WithError(err).Fatal("Failed to initialize handler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := NewRateLimiter(rate.Limit(cfg.RateLimitRequestsPerMinute/60.0), cfg.RateLimitBurst)
	go limiter.Run(ctx, cfg.ClientCleanupInterval)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newServerHandler(handler, limiter, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		middleware.Logger.WithFields(logrus.Fields{
			"addr":        server.Addr,
			"environment": cfg.CORSConfig.Environment,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		middleware.Logger.WithError(err).Error("Server failed")
	case <-ctx.Done():
		middleware.Logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.WithError(err).Error("Server shutdown failed")
	}
	monitoring.ShutdownTracing(shutdownCtx, tracerProvider)
	middleware.Logger.Info("Server stopped")
}
