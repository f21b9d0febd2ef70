package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port        string `envconfig:"PORT" default:"3001"`
	AppName     string `envconfig:"APP_NAME" default:"Repo Onboarding"`
	Environment string `envconfig:"ENVIRONMENT" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`

	// GitHub REST (server credential) and OAuth app
	GitHubToken           string `envconfig:"GITHUB_TOKEN"`
	GitHubAPIURL          string `envconfig:"GITHUB_API_URL"`
	GitHubMaxTreeDepth    int    `envconfig:"GITHUB_MAX_TREE_DEPTH" default:"8"`
	GitHubDiffConcurrency int    `envconfig:"GITHUB_DIFF_CONCURRENCY" default:"8"`
	GitHubClientID        string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret    string `envconfig:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL     string `envconfig:"GITHUB_REDIRECT_URL" default:"http://localhost:3001/api/auth/github/callback"`

	// Analysis
	HotspotMaxCommits   int `envconfig:"HOTSPOT_MAX_COMMITS" default:"100"`
	ConventionMaxPRs    int `envconfig:"CONVENTION_MAX_PRS" default:"50"`
	AssessmentMaxTokens int `envconfig:"ASSESSMENT_MAX_TOKENS" default:"1000"`

	// Language model (OpenAI-compatible)
	GroqAPIKey  string        `envconfig:"GROQ_API_KEY"`
	GroqBaseURL string        `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel   string        `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
	LLMTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"2m"`

	// Sessions
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTIssuer     string        `envconfig:"JWT_ISSUER" default:"repo-onboarding"`
	JWTExpiration time.Duration `envconfig:"JWT_EXPIRATION" default:"24h"`

	// Database
	DatabaseURL      string        `envconfig:"DATABASE_URL"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`
	DBAutoMigrate    bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	// MCP
	MCPEnabled bool   `envconfig:"MCP_ENABLED" default:"false"`
	MCPPort    string `envconfig:"MCP_PORT" default:"3002"`
}

// ErrMissingConfig is wrapped by Validate when required keys are unset.
var ErrMissingConfig = errors.New("missing required configuration")

// Load reads .env (if present) and then the environment. It does not
// validate; call Validate before starting anything that needs credentials.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// RequiredKeys are the variables the HTTP server cannot start without.
var RequiredKeys = []string{
	"GITHUB_TOKEN",
	"GROQ_API_KEY",
	"DATABASE_URL",
	"GITHUB_CLIENT_ID",
	"GITHUB_CLIENT_SECRET",
	"JWT_SECRET",
}

// Validate fails listing every missing required key, so a misconfigured
// deployment is fixed in one pass.
func (c *Config) Validate() error {
	return c.Require(RequiredKeys...)
}

// Require checks a subset of the required keys. Subcommands that need less
// than the full server (migrate, mcp) use it.
func (c *Config) Require(keys ...string) error {
	values := map[string]string{
		"GITHUB_TOKEN":         c.GitHubToken,
		"GROQ_API_KEY":         c.GroqAPIKey,
		"DATABASE_URL":         c.DatabaseURL,
		"GITHUB_CLIENT_ID":     c.GitHubClientID,
		"GITHUB_CLIENT_SECRET": c.GitHubClientSecret,
		"JWT_SECRET":           c.JWTSecret,
	}

	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment reports whether human-readable logs should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
