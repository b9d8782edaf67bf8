package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productionConfig() *Config {
	return &Config{
		Environment:          EnvProduction,
		LogLevel:             "info",
		SessionAuthKey:       strings.Repeat("a", 32),
		SessionEncryptionKey: strings.Repeat("b", 16),
		AuthRequired:         true,
		CORSAllowedOrigins:   "https://pantry.example.com",
	}
}

func validConfig() *Config {
	return &Config{
		SessionTTL:       time.Hour,
		EventsMaxRetries: 3,
		EventsRetryDelay: time.Second,
		ExpiryWindow:     48 * time.Hour,
		ExpiryScanEvery:  time.Hour,
		OtelSampleRatio:  1,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "testing")
	t.Setenv("EXPIRY_WINDOW", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvTesting, cfg.Environment)
	assert.Equal(t, 24*time.Hour, cfg.ExpiryWindow)
	assert.Equal(t, time.Hour, cfg.ExpiryScanEvery)
	assert.Equal(t, 3, cfg.EventsMaxRetries)
	assert.Equal(t, "shelfaware-expiry", cfg.TemporalTaskQueue)
	assert.InDelta(t, 1.0, cfg.OtelSampleRatio, 0)
}

func TestLoad_RejectsInvalidRange(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATIO", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATIO")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero scan interval", func(c *Config) { c.ExpiryScanEvery = 0 }, "EXPIRY_SCAN_EVERY"},
		{"negative window", func(c *Config) { c.ExpiryWindow = -time.Hour }, "EXPIRY_WINDOW"},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"negative retries", func(c *Config) { c.EventsMaxRetries = -1 }, "EVENTS_MAX_RETRIES"},
		{"sample ratio below zero", func(c *Config) { c.OtelSampleRatio = -0.1 }, "OTEL_SAMPLE_RATIO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"development is not checked", func(c *Config) { c.Environment = EnvDevelopment; c.LogLevel = "debug" }, ""},
		{"short auth key", func(c *Config) { c.SessionAuthKey = "short" }, "SESSION_AUTH_KEY"},
		{"short encryption key", func(c *Config) { c.SessionEncryptionKey = "short" }, "SESSION_ENCRYPTION_KEY"},
		{"debug logging", func(c *Config) { c.LogLevel = "DEBUG" }, "LOG_LEVEL"},
		{"auth disabled", func(c *Config) { c.AuthRequired = false }, "AUTH_REQUIRED"},
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = "https://a.example.com, *" }, "CORS_ALLOWED_ORIGINS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateForProduction_ReportsEveryProblem(t *testing.T) {
	cfg := productionConfig()
	cfg.AuthRequired = false
	cfg.CORSAllowedOrigins = "*"

	err := ValidateForProduction(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_REQUIRED")
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
}
