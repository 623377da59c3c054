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

	"bank_ledger/internal/api"
	"bank_ledger/internal/bank"
	"bank_ledger/internal/config"
	"bank_ledger/internal/repository/memory"
	"bank_ledger/internal/service"
	"bank_ledger/pkg/metrics"
)

const (
	appName = "bank_ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("withdrawal_ceiling", cfg.WithdrawalCeiling.StringFixed(2)),
		slog.Int("max_daily_withdrawals", cfg.MaxDailyWithdrawals))

	metricsCollector := metrics.NewMetricsCollector(logger)
	customerRegistry := memory.NewCustomerRegistry()
	accountRegistry := memory.NewAccountRegistry()
	ledger := bank.NewService(customerRegistry, accountRegistry, cfg.WithdrawalCeiling, cfg.MaxDailyWithdrawals, logger)
	notificationService := setupNotificationService(logger)
	apiHandler := api.NewAPIHandler(ledger, metricsCollector, notificationService, logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg, apiHandler, logger)
	waitForShutdown(cfg, logger, httpServer, metricsServer, metricsCollector, notificationService)
	logger.Info("Application shutdown complete")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func setupNotificationService(logger *slog.Logger) *service.NotificationService {
	emailService := &service.MockEmailService{}
	smsService := &service.MockSMSService{}

	return service.NewNotificationService(
		emailService,
		smsService,
		3,
		logger,
	)
}

func startHTTPServer(cfg *config.Config, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	cfg *config.Config,
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	metricsCollector *metrics.MetricsCollector,
	notificationService *service.NotificationService,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := notificationService.Shutdown(ctx); err != nil {
		logger.Error("Notification service shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsCollector.Shutdown(ctx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
}
