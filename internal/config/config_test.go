package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "LISTEN_ADDR", "LOG_LEVEL", "ENV", "JWT_SECRET",
		"READ_MAX_CONNS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"CORS_ALLOWED_ORIGINS", "LOAN_PERIOD_DAYS", "OVERDUE_SWEEP_SCHEDULE",
		"SEED_DEMO_DATA",
		"DB_INSTRUMENTATION_ENABLED",
		"REQUEST_LOGGING_ACTIVE",
		"REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_ACTIVE",
		"REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD",
		"REQUEST_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "shelf.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.ReadMaxConns)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 21, cfg.LoanPeriodDays)
	assert.Equal(t, "@hourly", cfg.OverdueSweepSchedule)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
	assert.NotEmpty(t, cfg.Warnings, "default JWT secret warns")

	assert.True(t, cfg.Instrumentation.Enabled)
	assert.True(t, cfg.Instrumentation.LoggingActive)
	assert.False(t, cfg.Instrumentation.DetailedDiagnostics)
	assert.Equal(t, 0, cfg.Instrumentation.DetailThreshold)
	assert.Equal(t, "info", cfg.Instrumentation.SummaryLevel)
}

func TestLoadFromEnv_InstrumentationVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_INSTRUMENTATION_ENABLED", "false")
	t.Setenv("REQUEST_LOGGING_ACTIVE", "false")
	t.Setenv("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_ACTIVE", "true")
	t.Setenv("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD", "5")
	t.Setenv("REQUEST_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Instrumentation.Enabled)
	assert.False(t, cfg.Instrumentation.LoggingActive)
	assert.True(t, cfg.Instrumentation.DetailedDiagnostics)
	assert.Equal(t, 5, cfg.Instrumentation.DetailThreshold)
	assert.Equal(t, slog.LevelDebug, cfg.Instrumentation.SlogSummaryLevel())
}

func TestLoadFromEnv_InvalidThreshold(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD", "three")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestLoadFromEnv_NegativeThreshold(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_LOGGING_DETAILED_DB_QUERY_DIAGNOSTICS_THRESHOLD", "-2")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestLoadFromEnv_UnknownSummaryLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_LOG_LEVEL", "verbose")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_LOG_LEVEL")
}

func TestLoadFromEnv_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shelf.example.com")

	_, err := LoadFromEnv()
	require.Error(t, err, "default JWT secret is fatal in production")

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromEnv_ProductionRejectsCORSWildcard(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "super-secret")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS")
}

func TestLoadFromEnv_CORSOriginsTrimmed(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com , https://b.example.com ,")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.in)
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	err := LoadDotEnv("/nonexistent/.env")
	if err != nil {
		t.Errorf("expected no error for missing .env, got: %v", err)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("TEST_KEY=test_value\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_KEY"); val != "test_value" {
		t.Errorf("TEST_KEY = %q, want %q", val, "test_value")
	}
	_ = os.Unsetenv("TEST_KEY")
}

func TestLoadDotEnv_SkipsComments(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("# comment\nTEST_COMMENT_KEY=value\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_COMMENT_KEY"); val != "value" {
		t.Errorf("TEST_COMMENT_KEY = %q, want %q", val, "value")
	}
	_ = os.Unsetenv("TEST_COMMENT_KEY")
}

func TestLoadDotEnv_EnvVarPrecedence(t *testing.T) {
	t.Setenv("TEST_PRECEDENCE_KEY", "from_env")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte("TEST_PRECEDENCE_KEY=from_file\n"), 0644)
	if err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if val := os.Getenv("TEST_PRECEDENCE_KEY"); val != "from_env" {
		t.Errorf("TEST_PRECEDENCE_KEY = %q, want %q (env precedence)", val, "from_env")
	}
}
