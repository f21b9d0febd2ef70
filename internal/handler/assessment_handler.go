package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
	"github.com/arturoeanton/go-repo-onboarding/internal/service"
)

// AssessmentEngine generates and scores coding tasks.
type AssessmentEngine interface {
	Start(ctx context.Context, ref domain.RepoRef, devType string) (*domain.Assessment, error)
	Evaluate(ctx context.Context, in service.EvaluateInput) (*domain.Assessment, error)
	Get(id string) (*domain.Assessment, error)
}

// AssessmentHandler serves the assessment endpoints.
type AssessmentHandler struct {
	engine AssessmentEngine
	logger zerolog.Logger
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(engine AssessmentEngine, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		engine: engine,
		logger: logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register sets up assessment routes. Generation is public; submitting a
// solution needs a session.
func (h *AssessmentHandler) Register(router fiber.Router, session fiber.Handler) {
	assessment := router.Group("/assessment")
	assessment.Get("/start", h.Start)
	assessment.Post("/evaluate", session, h.Evaluate)
	assessment.Get("/:id", h.Get)
}

// Start generates a task for the developer type.
func (h *AssessmentHandler) Start(c fiber.Ctx) error {
	repo, devType := c.Query("repo"), c.Query("type")
	if repo == "" || devType == "" {
		return respondError(c, h.logger, "assessment.start", repo, newBadRequest("Repository and developer type are required"))
	}
	ref, err := parseRepo(repo)
	if err != nil {
		return respondError(c, h.logger, "assessment.start", repo, err)
	}

	a, err := h.engine.Start(c.Context(), ref, devType)
	if err != nil {
		return respondError(c, h.logger, "assessment.start", ref.FullName(), err)
	}
	return c.JSON(a)
}

type evaluateRequest struct {
	AssessmentID string            `json:"assessmentId"`
	Task         *domain.Task      `json:"task" validate:"required"`
	Solution     map[string]string `json:"solution" validate:"required"`
	Repo         string            `json:"repo" validate:"required"`
}

// Evaluate scores a submitted solution.
func (h *AssessmentHandler) Evaluate(c fiber.Ctx) error {
	if middleware.GetUserContext(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body evaluateRequest
	if err := bindJSON(c, &body); err != nil {
		return respondError(c, h.logger, "assessment.evaluate", body.Repo, err)
	}
	ref, err := parseRepo(body.Repo)
	if err != nil {
		return respondError(c, h.logger, "assessment.evaluate", body.Repo, err)
	}

	a, err := h.engine.Evaluate(c.Context(), service.EvaluateInput{
		AssessmentID: body.AssessmentID,
		Task:         *body.Task,
		Solution:     body.Solution,
		Repo:         ref,
	})
	if err != nil {
		return respondError(c, h.logger, "assessment.evaluate", ref.FullName(), err)
	}
	return c.JSON(a)
}

// Get returns a tracked assessment.
func (h *AssessmentHandler) Get(c fiber.Ctx) error {
	a, err := h.engine.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "assessment.get", "", err)
	}
	return c.JSON(a)
}
