package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "AI_PROVIDER", "OPENAI_MODEL", "OPENAI_TEMPERATURE",
		"SESSION_TTL_HOURS", "SWEEP_INTERVAL_MINUTES",
		"CHAT_CONTEXT_WINDOW_SIZE", "MAX_UPLOAD_BYTES", "CORS_ALLOW_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "3002", cfg.Port)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "gpt-4", cfg.OpenAIModel)
	assert.InDelta(t, 0.1, cfg.OpenAITemperature, 1e-9)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 6, cfg.ContextWindowSize)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("SESSION_TTL_HOURS", "1")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "5")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ollama", cfg.AIProvider)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoad_IgnoresBadNumbers(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "nope")
	t.Setenv("CHAT_CONTEXT_WINDOW_SIZE", "-3")

	cfg := Load()
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 6, cfg.ContextWindowSize)
}
