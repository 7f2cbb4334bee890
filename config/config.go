// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/leave-planner/generic"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	TotalBudget     int
	MaxIterations   int
	DefaultCalendar string
	RetentionDays   int
	RetentionCron   string
	CORSOrigins     []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; variables already set
// in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "leave.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultCalendar: getEnv("DEFAULT_CALENDAR", "it"),
		RetentionCron:   getEnv("RETENTION_CRON", "@daily"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.TotalBudget, err = getInt("TOTAL_BUDGET", generic.DefaultTotalBudget); err != nil {
		return nil, err
	}
	if cfg.MaxIterations, err = getInt("MAX_ITERATIONS", generic.DefaultMaxIterations); err != nil {
		return nil, err
	}
	if cfg.RetentionDays, err = getInt("RETENTION_DAYS", 30); err != nil {
		return nil, err
	}

	if cfg.TotalBudget <= 0 {
		return nil, fmt.Errorf("TOTAL_BUDGET must be positive, got %d", cfg.TotalBudget)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("MAX_ITERATIONS must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.RetentionDays < 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must not be negative, got %d", cfg.RetentionDays)
	}

	return cfg, nil
}

// NewLogger builds the JSON logger used by every command.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
