package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry              *prometheus.Registry
	transactionsCommitted *prometheus.CounterVec
	transactionsRejected  *prometheus.CounterVec
	transactionDuration   prometheus.Histogram
	customersRegistered   prometheus.Counter
	accountsOpened        prometheus.Counter
	accountBalance        *prometheus.GaugeVec
	logger                *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()

	collector := &MetricsCollector{
		registry: registry,
		transactionsCommitted: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_committed_total",
			Help: "Total number of committed transactions",
		}, []string{"kind"}),
		transactionsRejected: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_transactions_rejected_total",
			Help: "Total number of rejected transactions",
		}, []string{"kind", "reason"}),
		transactionDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_transaction_duration_seconds",
			Help:    "Time taken to apply a transaction",
			Buckets: prometheus.DefBuckets,
		}),
		customersRegistered: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_customers_registered_total",
			Help: "Total number of registered customers",
		}),
		accountsOpened: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_opened_total",
			Help: "Total number of opened accounts",
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_account_balance",
			Help: "Current account balance",
		}, []string{"account", "branch"}),
		logger: logger,
	}

	return collector
}

func (m *MetricsCollector) RecordTransaction(kind string, duration time.Duration, reason string) {
	if reason == "" {
		m.transactionsCommitted.WithLabelValues(kind).Inc()
	} else {
		m.transactionsRejected.WithLabelValues(kind, reason).Inc()
	}
	m.transactionDuration.Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordCustomerRegistered() {
	m.customersRegistered.Inc()
}

func (m *MetricsCollector) RecordAccountOpened() {
	m.accountsOpened.Inc()
}

func (m *MetricsCollector) UpdateAccountBalance(account, branch string, balance float64) {
	m.accountBalance.WithLabelValues(account, branch).Set(balance)
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *MetricsCollector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	m.logger.Info("Metrics collector shutdown complete")
	return nil
}
