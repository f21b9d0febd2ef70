package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/ai"
	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/auth"
	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/store"
	"github.com/arturoeanton/go-repo-onboarding/internal/adapter/vcs"
	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
	"github.com/arturoeanton/go-repo-onboarding/internal/service"
	"github.com/arturoeanton/go-repo-onboarding/pkg/config"
)

// analysisStack is what both the HTTP server and the MCP server need.
type analysisStack struct {
	analysis    *service.AnalysisService
	chat        *service.ChatService
	conventions *service.ConventionService
	repos       port.RepositoryProvider
	llm         port.LLMGateway
}

func newAnalysisStack(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*analysisStack, error) {
	repos, err := vcs.NewGitHubProvider(vcs.GitHubConfig{
		BaseURL:         cfg.GitHubAPIURL,
		DefaultToken:    cfg.GitHubToken,
		MaxTreeDepth:    cfg.GitHubMaxTreeDepth,
		DiffConcurrency: cfg.GitHubDiffConcurrency,
	}, nil, logger, m)
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}

	llm := ai.NewGroqGateway(ai.GroqConfig{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.LLMTimeout,
	}, nil, logger, m)

	return &analysisStack{
		analysis:    service.NewAnalysisService(repos, llm, service.AnalysisConfig{MaxCommits: cfg.HotspotMaxCommits}, logger),
		chat:        service.NewChatService(repos, llm, logger),
		conventions: service.NewConventionService(repos, llm, service.ConventionConfig{MaxPullRequests: cfg.ConventionMaxPRs, ReviewConcurrency: cfg.GitHubDiffConcurrency}, logger),
		repos:       repos,
		llm:         llm,
	}, nil
}

// serverStack adds the pieces only the HTTP server uses.
type serverStack struct {
	*analysisStack
	assessment *service.AssessmentService
	repo       *service.RepoService
	auth       *service.AuthService
	connector  *store.Connector
	jwt        middleware.JWTConfig
}

func newServerStack(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*serverStack, error) {
	base, err := newAnalysisStack(cfg, logger, m)
	if err != nil {
		return nil, err
	}

	githubAuth, err := auth.NewGitHubProvider(auth.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
		APIBaseURL:   cfg.GitHubAPIURL,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("github oauth: %w", err)
	}

	// dialed on first use, not here
	connector := store.NewConnector(store.ConnectorConfig{
		DSN:            cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
		AutoMigrate:    cfg.DBAutoMigrate,
	}, logger, m)

	jwtCfg := middleware.JWTConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		ExpiresIn: cfg.JWTExpiration,
	}

	return &serverStack{
		analysisStack: base,
		assessment: service.NewAssessmentService(
			base.analysis, base.llm, service.NewAssessmentTracker(0), nil,
			service.AssessmentConfig{MaxTokens: cfg.AssessmentMaxTokens}, logger,
		),
		repo:      service.NewRepoService(base.repos, logger),
		auth:      service.NewAuthService(port.AuthProviderRegistry{"github": githubAuth}, store.NewUserStore(connector), jwtCfg, logger),
		connector: connector,
		jwt:       jwtCfg,
	}, nil
}
