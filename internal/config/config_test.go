package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/choiyuns329/Japan-trip/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FILE", "CORS_ORIGINS", "STORAGE_DRIVER", "SQLITE_PATH",
		"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "PUBLIC_URL",
		"PLANNER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "PLANNER_BASE_URL",
		"PLANNER_MODEL", "PLANNER_TIMEOUT", "PLANNER_MAX_RETRIES", "MERGE_OMITTED_LISTS",
		"LOCALE", "CURRENCY",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, config.DriverSQLite, cfg.StorageDriver)
	require.Equal(t, "tripmate.db", cfg.SQLitePath)
	require.Equal(t, "http://localhost:5173", cfg.PublicURL)
	require.Equal(t, "gemini-2.5-flash", cfg.PlannerModel)
	require.Equal(t, 60*time.Second, cfg.PlannerTimeout)
	require.Equal(t, 2, cfg.PlannerMaxRetries)
	require.Equal(t, "keep", cfg.MergeOmittedLists)
	require.Equal(t, "ko", cfg.Locale)
	require.Equal(t, "KRW", cfg.Currency)
	require.Empty(t, cfg.PlannerAPIKey, "a missing key is allowed")
}

// TestLoad_overrides verifies that values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PLANNER_TIMEOUT", "90s")
	t.Setenv("PLANNER_MAX_RETRIES", "0")
	t.Setenv("MERGE_OMITTED_LISTS", "clear")
	t.Setenv("CURRENCY", "JPY")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, config.DriverRedis, cfg.StorageDriver)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, 90*time.Second, cfg.PlannerTimeout)
	require.Equal(t, 0, cfg.PlannerMaxRetries)
	require.Equal(t, "clear", cfg.MergeOmittedLists)
	require.Equal(t, "JPY", cfg.Currency)
}

func TestLoad_timeoutInSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_TIMEOUT", "15")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, 15*time.Second, cfg.PlannerTimeout)
}

// TestLoad_apiKeyFallback verifies the order PLANNER_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY.
func TestLoad_apiKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "openai")
	t.Setenv("GEMINI_API_KEY", "gemini")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.PlannerAPIKey)

	t.Setenv("PLANNER_API_KEY", "planner")
	cfg, err = config.Load()
	require.NoError(t, err)
	require.Equal(t, "planner", cfg.PlannerAPIKey)
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		message string
	}{
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"redis without addr", map[string]string{"STORAGE_DRIVER": "redis"}, "REDIS_ADDR"},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}, "StorageDriver"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "LogLevel"},
		{"bad port", map[string]string{"PORT": "http"}, "Port"},
		{"bad retries", map[string]string{"PLANNER_MAX_RETRIES": "many"}, "PLANNER_MAX_RETRIES"},
		{"bad timeout", map[string]string{"PLANNER_TIMEOUT": "soon"}, "PLANNER_TIMEOUT"},
		{"bad merge policy", map[string]string{"MERGE_OMITTED_LISTS": "append"}, "MergeOmittedLists"},
		{"relative base url", map[string]string{"PLANNER_BASE_URL": "/v1"}, "PlannerBaseURL"},
		{"unknown currency", map[string]string{"CURRENCY": "EURO"}, "Currency"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()

			require.Error(t, err)
			require.ErrorContains(t, err, tc.message)
		})
	}
}
