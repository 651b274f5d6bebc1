// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// InstrumentationConfig controls request-scoped database query logging.
// It is read once at startup and never mutated afterwards.
type InstrumentationConfig struct {
	Enabled             bool   // capture queries per request (default: true)
	LoggingActive       bool   // install the request logging middleware at all (default: true)
	DetailedDiagnostics bool   // capture stacks and log per-query detail entries (default: false)
	DetailThreshold     int    // groups repeated strictly more than this get a detail entry (default: 0)
	SummaryLevel        string // severity of the per-request summary entry (default: "info")
}

// SlogSummaryLevel maps SummaryLevel to an slog.Level.
func (i *InstrumentationConfig) SlogSummaryLevel() slog.Level {
	return levelFromString(i.SummaryLevel)
}

// Config holds the configuration for the HTTP API and library service.
type Config struct {
	DBPath       string // path to the SQLite database file (default "shelf.sqlite")
	ListenAddr   string // HTTP listen address (default ":8080")
	LogLevel     string // log level: debug, info, warn, error (default "info")
	Env          string // environment: "development" (default) or "production"
	JWTSecret    string // HS256 shared secret for admin JWT auth
	ReadMaxConns int    // max open connections on the read pool (default 4)

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Library behavior
	LoanPeriodDays       int    // due date offset applied when a copy is borrowed (default 21)
	OverdueSweepSchedule string // cron spec for the overdue sweep job (default "@hourly")
	SeedDemoData         bool   // seed demo authors/books/members on startup (default true)

	// Instrumentation holds the query logging configuration.
	Instrumentation InstrumentationConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	return levelFromString(c.LogLevel)
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

const devJWTSecret = "dev-secret-change-in-production"

// LoadFromEnv loads configuration from environment variables. Instrumentation
// misconfiguration (a threshold that is not a non-negative integer, an unknown
// log level) is a startup error rather than something discovered per request.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:               os.Getenv("DB_PATH"),
		ListenAddr:           os.Getenv("LISTEN_ADDR"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		Env:                  os.Getenv("ENV"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		OverdueSweepSchedule: os.Getenv("OVERDUE_SWEEP_SCHEDULE"),
		SeedDemoData:         parseBoolEnvDefault("SEED_DEMO_DATA", true),
	}

	cfg.Instrumentation = InstrumentationConfig{
		Enabled:             parseBoolEnvDefault("DB_INSTRUMENTATION_ENABLED", true),
		LoggingActive:       parseBoolEnvDefault("REQUEST_LOGGING_ACTIVE", true),
		DetailedDiagnostics: parseBoolEnvDefault("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_ACTIVE", false),
		SummaryLevel:        os.Getenv("REQUEST_LOG_LEVEL"),
	}
	if v := os.Getenv("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD: %q is not an integer", v)
		}
		if n < 0 {
			return nil, fmt.Errorf("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD must not be negative, got %d", n)
		}
		cfg.Instrumentation.DetailThreshold = n
	}
	if cfg.Instrumentation.SummaryLevel == "" {
		cfg.Instrumentation.SummaryLevel = "info"
	}
	if !knownLevel(cfg.Instrumentation.SummaryLevel) {
		return nil, fmt.Errorf("REQUEST_LOG_LEVEL: unknown level %q (want debug, info, warn or error)", cfg.Instrumentation.SummaryLevel)
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// Connection and loan knobs
	if v := os.Getenv("READ_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadMaxConns = n
		}
	}
	if v := os.Getenv("LOAN_PERIOD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LoanPeriodDays = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "shelf.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ReadMaxConns == 0 {
		cfg.ReadMaxConns = 4
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.LoanPeriodDays == 0 {
		cfg.LoanPeriodDays = 21
	}
	if cfg.OverdueSweepSchedule == "" {
		cfg.OverdueSweepSchedule = "@hourly"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set, using insecure default. Set JWT_SECRET in production!")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if cfg.JWTSecret == devJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production (ENV=production)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

func levelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func knownLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	if v == "0" || v == "false" || v == "no" || v == "off" {
		return false
	}
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return defaultVal
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
