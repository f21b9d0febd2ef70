package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("DATABASE_URL", "postgres://localhost/onboard")
	t.Setenv("GITHUB_CLIENT_ID", "client")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("JWT_SECRET", "jwt")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.GroqBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.LLMTimeout)
	assert.Equal(t, 100, cfg.HotspotMaxCommits)
	assert.Equal(t, 50, cfg.ConventionMaxPRs)
	assert.Equal(t, 8, cfg.GitHubMaxTreeDepth)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.MCPEnabled)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GROQ_MODEL", "qwen-qwq-32b")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("MCP_ENABLED", "true")
	t.Setenv("ENVIRONMENT", "Development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "qwen-qwq-32b", cfg.GroqModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.MCPEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("HOTSPOT_MAX_COMMITS", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestValidate_ListsEveryMissingKey(t *testing.T) {
	for _, key := range []string{"GITHUB_TOKEN", "GROQ_API_KEY", "DATABASE_URL", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Equal(t, "missing required configuration: GITHUB_TOKEN, DATABASE_URL, GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET, JWT_SECRET", err.Error())
}

func TestRequire_Subset(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/onboard"}

	assert.NoError(t, cfg.Require("DATABASE_URL"))

	err := cfg.Require("GITHUB_TOKEN", "GROQ_API_KEY")
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "GITHUB_TOKEN, GROQ_API_KEY")
}
