package config_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-planner/config"
)

func TestLoad_EmptyValues(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "TOTAL_BUDGET", "MAX_ITERATIONS",
		"DEFAULT_CALENDAR", "RETENTION_DAYS", "RETENTION_CRON", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Port, "explicitly empty values are kept")
	assert.Equal(t, 180, cfg.TotalBudget)
	assert.Equal(t, 10000, cfg.MaxIterations)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("TOTAL_BUDGET", "150")
	t.Setenv("DEFAULT_CALENDAR", "de")
	t.Setenv("RETENTION_CRON", "0 3 * * *")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://plan.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 150, cfg.TotalBudget)
	assert.Equal(t, "de", cfg.DefaultCalendar)
	assert.Equal(t, "0 3 * * *", cfg.RetentionCron)
	assert.Equal(t, []string{"http://localhost:3000", "https://plan.example.com"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"TOTAL_BUDGET":   "lots",
		"MAX_ITERATIONS": "0",
		"RETENTION_DAYS": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, config.NewLogger("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, config.NewLogger("nonsense").GetLevel())
	_, ok := config.NewLogger("warn").Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
