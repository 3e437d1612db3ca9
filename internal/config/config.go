// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/text/currency"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds all configuration values for the CLI and the local API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port `tripmate serve` listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, sends logs to a size-rotated file instead of the console.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	CORSOrigins []string

	// StorageDriver selects the slot store: sqlite (default), postgres, redis or memory.
	StorageDriver string
	SQLitePath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PublicURL is the front-end address share links point at.
	PublicURL string

	// Planner settings. An empty PlannerAPIKey is allowed: generation then
	// always reports "no result".
	PlannerAPIKey     string
	PlannerBaseURL    string
	PlannerModel      string
	PlannerTimeout    time.Duration
	PlannerMaxRetries int

	// MergeOmittedLists is "keep" or "clear"; see the merge package.
	MergeOmittedLists string

	// Locale and Currency drive CLI money formatting and the planner prompt.
	Locale   string
	Currency string
}

// Load reads configuration from environment variables and returns a validated Config.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:           os.Getenv("LOG_FILE"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:        getEnv("SQLITE_PATH", "tripmate.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		PublicURL:         getEnv("PUBLIC_URL", "http://localhost:5173"),
		PlannerAPIKey:     firstEnv("PLANNER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"),
		PlannerBaseURL:    getEnv("PLANNER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		PlannerModel:      getEnv("PLANNER_MODEL", "gemini-2.5-flash"),
		MergeOmittedLists: strings.ToLower(getEnv("MERGE_OMITTED_LISTS", "keep")),
		Locale:            getEnv("LOCALE", "ko"),
		Currency:          strings.ToUpper(getEnv("CURRENCY", "KRW")),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.PlannerMaxRetries, err = getInt("PLANNER_MAX_RETRIES", 2); err != nil {
		return Config{}, err
	}
	if cfg.PlannerTimeout, err = getDuration("PLANNER_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and the settings each storage driver requires.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.StorageDriver, validation.Required,
			validation.In(DriverSQLite, DriverPostgres, DriverRedis, DriverMemory)),
		validation.Field(&c.SQLitePath,
			validation.When(c.StorageDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.StorageDriver == DriverPostgres, validation.Required.Error("DATABASE_URL is required for the postgres driver"))),
		validation.Field(&c.RedisAddr,
			validation.When(c.StorageDriver == DriverRedis, validation.Required.Error("REDIS_ADDR is required for the redis driver"))),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.PublicURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.PlannerBaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.PlannerModel, validation.Required),
		validation.Field(&c.PlannerTimeout, validation.Min(time.Second)),
		validation.Field(&c.PlannerMaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.MergeOmittedLists, validation.In("keep", "clear")),
		validation.Field(&c.Currency, validation.Required, validation.By(isoCurrency)),
	)
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func isoCurrency(v any) error {
	s, _ := v.(string)
	if _, err := currency.ParseISO(s); err != nil {
		return fmt.Errorf("must be an ISO 4217 currency code")
	}
	return nil
}

func absoluteURL(v any) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", key, v)
	}
	return n, nil
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: not a duration: %q", key, v)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
