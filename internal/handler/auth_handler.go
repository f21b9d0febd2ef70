package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
)

const stateCookie = "oauth_state"

// Authenticator runs the OAuth flow and keeps user records in sync.
type Authenticator interface {
	GetAuthURL(providerName, state string) (string, error)
	HandleCallback(ctx context.Context, providerName, code string) (string, *domain.User, error)
	SyncUser(ctx context.Context, in domain.UserUpsert) (*domain.User, bool, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth        Authenticator
	frontendURL string
	logger      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth Authenticator, frontendURL string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		logger:      logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register sets up auth routes.
func (h *AuthHandler) Register(router fiber.Router, session fiber.Handler) {
	auth := router.Group("/auth")
	auth.Get("/:provider/login", h.Login)
	auth.Get("/:provider/callback", h.Callback)
	auth.Post("/user", session, h.SyncUser)
}

// Login redirects to the provider's consent screen.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	provider := c.Params("provider")
	// provider:random, checked against the cookie on the way back
	state := provider + ":" + generateState()

	authURL, err := h.auth.GetAuthURL(provider, state)
	if err != nil {
		return respondError(c, h.logger, "auth.login", "", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect().Status(fiber.StatusFound).To(authURL)
}

// Callback exchanges the code and hands the session token to the frontend.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	provider := c.Params("provider")
	code, state := c.Query("code"), c.Query("state")

	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing authorization code"})
	}
	expected := c.Cookies(stateCookie)
	if state == "" || expected == "" || state != expected || !strings.HasPrefix(state, provider+":") {
		h.logger.Warn().Str("provider", provider).Msg("oauth state mismatch")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid oauth state"})
	}
	c.ClearCookie(stateCookie)

	token, user, err := h.auth.HandleCallback(c.Context(), provider, code)
	if err != nil {
		return respondError(c, h.logger, "auth.callback", "", err)
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("name", user.Name)
	return c.Redirect().Status(fiber.StatusFound).To(h.frontendURL + "/auth/callback?" + q.Encode())
}

type userRequest struct {
	GitHubID string `json:"githubId" validate:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Image    string `json:"image"`
}

// SyncUser creates or updates the user record for a GitHub identity.
func (h *AuthHandler) SyncUser(c fiber.Ctx) error {
	if middleware.GetUserContext(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body userRequest
	if err := bindJSON(c, &body); err != nil {
		return respondError(c, h.logger, "auth.user", "", err)
	}

	user, created, err := h.auth.SyncUser(c.Context(), domain.UserUpsert{
		GitHubID: body.GitHubID,
		Name:     body.Name,
		Email:    body.Email,
		Image:    body.Image,
	})
	if err != nil {
		return respondError(c, h.logger, "auth.user", "", err)
	}

	message := "User updated successfully"
	if created {
		message = "User created successfully"
	}
	return c.JSON(fiber.Map{"user": user, "message": message})
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
