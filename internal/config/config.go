package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
)

// Config holds the application settings.
type Config struct {
	HTTPAddr            string
	MetricsAddr         string
	WithdrawalCeiling   decimal.Decimal
	MaxDailyWithdrawals int
	ShutdownTimeout     time.Duration
	LogLevel            slog.Level
}

// Load reads settings from the environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment defaults")
	}

	ceiling := domain.DefaultWithdrawalCeiling
	if raw := os.Getenv("WITHDRAWAL_CEILING"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err == nil && parsed.Sign() > 0 {
			ceiling = parsed
		}
	}

	maxDaily := domain.DefaultMaxDailyWithdrawals
	if raw := os.Getenv("MAX_DAILY_WITHDRAWALS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxDaily = parsed
		}
	}

	shutdown, err := time.ParseDuration(os.Getenv("SHUTDOWN_TIMEOUT"))
	if err != nil {
		shutdown = 30 * time.Second
	}

	cfg := &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:         getEnv("METRICS_ADDR", ":9090"),
		WithdrawalCeiling:   ceiling,
		MaxDailyWithdrawals: maxDaily,
		ShutdownTimeout:     shutdown,
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
