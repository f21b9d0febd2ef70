package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
)

// TokenSource resolves the GitHub credential for a session user. An empty
// result selects the server credential.
type TokenSource interface {
	GitHubToken(ctx context.Context, uc *domain.UserContext) string
}

// InsightsProvider runs the repository analysis.
type InsightsProvider interface {
	Insights(ctx context.Context, token string, ref domain.RepoRef, role string) (*domain.AnalysisResult, error)
}

// RepositoryChat answers free-text questions about a repository.
type RepositoryChat interface {
	Ask(ctx context.Context, token string, ref domain.RepoRef, role, message string) (string, error)
}

// ConventionExtractor infers team conventions from review history.
type ConventionExtractor interface {
	Extract(ctx context.Context, token string, ref domain.RepoRef, role string) ([]domain.Convention, error)
}

// AnalysisHandler serves the session-scoped analysis endpoints.
type AnalysisHandler struct {
	insights    InsightsProvider
	chat        RepositoryChat
	conventions ConventionExtractor
	tokens      TokenSource
	logger      zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(insights InsightsProvider, chat RepositoryChat, conventions ConventionExtractor, tokens TokenSource, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		insights:    insights,
		chat:        chat,
		conventions: conventions,
		tokens:      tokens,
		logger:      logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register sets up analysis routes behind the session middleware.
func (h *AnalysisHandler) Register(router fiber.Router, session fiber.Handler) {
	analysis := router.Group("/analysis", session)
	analysis.Get("/insights", h.Insights)
	analysis.Post("/chat", h.Chat)
	analysis.Get("/conventions", h.Conventions)
}

// Insights returns hotspots, stats, summary and recommendations for a repository.
func (h *AnalysisHandler) Insights(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	repo, role := c.Query("repo"), c.Query("role")
	if repo == "" || role == "" {
		return respondError(c, h.logger, "analysis.insights", repo, newBadRequest("Missing required parameters"))
	}
	ref, err := parseRepo(repo)
	if err != nil {
		return respondError(c, h.logger, "analysis.insights", repo, err)
	}

	result, err := h.insights.Insights(c.Context(), h.tokens.GitHubToken(c.Context(), uc), ref, role)
	if err != nil {
		return respondError(c, h.logger, "analysis.insights", ref.FullName(), err)
	}
	return c.JSON(result)
}

type chatRequest struct {
	Repo    string `json:"repo" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Chat answers a question about the repository in markdown.
func (h *AnalysisHandler) Chat(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body chatRequest
	if err := bindJSON(c, &body); err != nil {
		return respondError(c, h.logger, "analysis.chat", body.Repo, err)
	}
	ref, err := parseRepo(body.Repo)
	if err != nil {
		return respondError(c, h.logger, "analysis.chat", body.Repo, err)
	}

	answer, err := h.chat.Ask(c.Context(), h.tokens.GitHubToken(c.Context(), uc), ref, body.Role, body.Message)
	if err != nil {
		return respondError(c, h.logger, "analysis.chat", ref.FullName(), err)
	}
	return c.JSON(fiber.Map{
		"response": answer,
		"format":   "markdown",
	})
}

// Conventions lists team conventions inferred from pull-request reviews.
func (h *AnalysisHandler) Conventions(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	ref, err := parseRepo(c.Query("repo"))
	if err != nil {
		return respondError(c, h.logger, "analysis.conventions", c.Query("repo"), err)
	}

	conventions, err := h.conventions.Extract(c.Context(), h.tokens.GitHubToken(c.Context(), uc), ref, c.Query("role"))
	if err != nil {
		return respondError(c, h.logger, "analysis.conventions", ref.FullName(), err)
	}
	return c.JSON(fiber.Map{"conventions": conventions})
}
