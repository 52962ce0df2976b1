package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Nagaurav/MockInterview1/internal/adapters/http/api"
	"github.com/Nagaurav/MockInterview1/internal/adapters/http/site"
	"github.com/Nagaurav/MockInterview1/internal/adapters/http/swagger"
	"github.com/Nagaurav/MockInterview1/internal/adapters/recordstore"
	app "github.com/Nagaurav/MockInterview1/internal/app"
	"github.com/Nagaurav/MockInterview1/internal/config"
	"github.com/Nagaurav/MockInterview1/internal/perception"
	"github.com/Nagaurav/MockInterview1/pkg/logger"
	"github.com/Nagaurav/MockInterview1/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(ctx, cfg, loggerInstance)
	if err != nil {
		os.Stderr.WriteString("failed to open record store: " + err.Error() + "\n")
		return
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithProvider(buildProvider(cfg)),
		app.WithWindowDays(cfg.WindowDays),
		app.WithIdempotencySize(cfg.IdempotencySize),
		app.WithAnalysisTimeout(time.Duration(cfg.AnalysisTimeoutMS)*time.Millisecond),
		app.WithFeedbackThresholds(cfg.FeedbackLowThreshold, cfg.FeedbackHighThreshold),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Landing page at /, API docs under /api-docs
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxWindowDays)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// openStore selects the record store backend from configuration.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (recordstore.Store, error) {
	if cfg.StoreDriver == "sqlite" {
		log.Info(ctx, "using sqlite record store", logger.String("path", cfg.SQLitePath))
		return recordstore.OpenSQLite(cfg.SQLitePath)
	}
	log.Info(ctx, "using in-memory record store")
	return recordstore.NewMemoryStore(), nil
}

// buildProvider selects the perception backend from configuration.
func buildProvider(cfg *config.Config) perception.Provider {
	if cfg.ProviderMode == "http" {
		return perception.NewHTTPProvider(cfg.ProviderURL)
	}
	return perception.NewSimProvider(
		perception.WithLatencyRange(
			time.Duration(cfg.ProviderLatencyMinMS)*time.Millisecond,
			time.Duration(cfg.ProviderLatencyMaxMS)*time.Millisecond,
		),
	)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
