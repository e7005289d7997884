package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buysmart/comparison/config"
	httpDelivery "github.com/buysmart/comparison/internal/delivery/http"
	"github.com/buysmart/comparison/internal/domain"
	"github.com/buysmart/comparison/internal/infrastructure/buysmart"
	"github.com/buysmart/comparison/internal/infrastructure/notify"
	"github.com/buysmart/comparison/internal/infrastructure/storage"
	"github.com/buysmart/comparison/internal/logging"
	"github.com/buysmart/comparison/internal/metrics"
	"github.com/buysmart/comparison/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "buysmart-comparison: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(logging.Options{
		ServiceName: "buysmart-comparison",
		Level:       logging.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "starting BuySmart comparison service",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"backend", cfg.API.BaseURL,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	comparisonMetrics := metrics.NewComparisonMetrics(registry)

	// Initialize infrastructure dependencies
	slot, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}
	defer func() {
		if err := slot.Close(); err != nil {
			logger.Error(context.Background(), "failed to close storage", err)
		}
	}()

	client := buysmart.NewClient(buysmart.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		MaxRetries:        cfg.API.MaxRetries,
	}, logger)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
	}
	if cfg.API.Token == "" {
		logger.Warn(ctx, "no backend token configured; authenticated endpoints will fail")
	}

	feed := notify.NewFeed(cfg.Notifications.FeedSize)
	notifier := notify.Multi{notify.NewLogNotifier(logger), feed}

	// Initialize usecase layer
	store := usecase.NewComparisonStore(ctx, slot, usecase.ComparisonStoreConfig{
		Logger:  logger,
		Metrics: comparisonMetrics,
		OnCorrupted: func(err error) {
			if errors.Is(err, domain.ErrStorageCorrupted) {
				logger.Warn(ctx, "comparison set reset after unreadable storage", "error", err.Error())
			}
		},
	})
	logger.Info(ctx, "comparison set loaded", "count", store.Count())

	service := usecase.NewComparisonService(
		store,
		usecase.NewComparisonFetcher(client, store, logger, comparisonMetrics),
		usecase.NewCandidateLoader(client, notifier, logger, comparisonMetrics),
		notifier,
		logger,
	)

	handler := httpDelivery.NewHandler(service, feed, slot, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger, registry)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
