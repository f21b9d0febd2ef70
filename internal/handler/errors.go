package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

const invalidRepoMessage = "Invalid repository format. Expected format: owner/repo or full GitHub URL"

// badRequest is an input error with a message safe to show the client.
type badRequest struct {
	msg string
	err error
}

func (e *badRequest) Error() string { return e.msg }

func (e *badRequest) Unwrap() error { return e.err }

func newBadRequest(msg string) error {
	return &badRequest{msg: msg, err: domain.ErrInvalidInput}
}

// parseRepo parses a required repository reference from a query or body value.
func parseRepo(raw string) (domain.RepoRef, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.RepoRef{}, newBadRequest("Missing required parameters")
	}
	ref, err := domain.ParseRepoRef(raw)
	if err != nil {
		return domain.RepoRef{}, &badRequest{msg: invalidRepoMessage, err: err}
	}
	return ref, nil
}

// statusFor maps an error kind to an HTTP status and a short client message.
// Raw upstream bodies and model output never reach the message.
func statusFor(err error) (int, string) {
	var (
		bad       *badRequest
		invalid   *domain.InvalidInputError
		upstream  *domain.UpstreamFetchError
		malformed *domain.MalformedAIResponseError
	)
	switch {
	case errors.As(err, &bad):
		return fiber.StatusBadRequest, bad.msg
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, invalid.Msg
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, port.ErrTokenInvalid),
		errors.Is(err, port.ErrTokenExpired):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, port.ErrAssessmentNotFound):
		return fiber.StatusNotFound, "Assessment not found"
	case errors.Is(err, port.ErrUserNotFound):
		return fiber.StatusNotFound, "User not found"
	case errors.As(err, &upstream):
		return fiber.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s from GitHub", upstream.Resource)
	case errors.As(err, &malformed):
		return fiber.StatusInternalServerError, "The AI response could not be parsed"
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fiber.StatusInternalServerError, "The AI service is unavailable"
	case errors.Is(err, port.ErrDatabaseUnavailable):
		return fiber.StatusServiceUnavailable, "Database unavailable"
	default:
		return fiber.StatusInternalServerError, "Internal Server Error"
	}
}

// respondError logs err with the failing stage and writes {"error": msg}.
func respondError(c fiber.Ctx, logger zerolog.Logger, stage, repo string, err error) error {
	status, msg := statusFor(err)

	ev := logger.Error()
	if status < fiber.StatusInternalServerError {
		ev = logger.Warn()
	}
	ev = ev.Err(err).
		Str("stage", stage).
		Str("path", c.Path()).
		Str("repo", repo).
		Int("status", status)

	var upstream *domain.UpstreamFetchError
	if errors.As(err, &upstream) {
		ev = ev.Str("url", upstream.URL).Int("upstream_status", upstream.Status)
	}
	var malformed *domain.MalformedAIResponseError
	if errors.As(err, &malformed) {
		ev = ev.Str("raw", malformed.Raw)
	}
	ev.Msg("request failed")

	return c.Status(status).JSON(fiber.Map{"error": msg})
}
