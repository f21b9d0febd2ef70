package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/middleware"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// AuthService handles the authentication flow and the user records behind it.
type AuthService struct {
	providers port.AuthProviderRegistry
	users     port.UserStore
	jwtCfg    middleware.JWTConfig
	logger    zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(providers port.AuthProviderRegistry, users port.UserStore, jwtCfg middleware.JWTConfig, logger zerolog.Logger) *AuthService {
	return &AuthService{
		providers: providers,
		users:     users,
		jwtCfg:    jwtCfg,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

// GetAuthURL returns the OAuth2 authorization URL for the given provider.
func (s *AuthService) GetAuthURL(providerName, state string) (string, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", domain.NewInvalidInput("unknown provider %s", providerName)
	}
	return provider.AuthURL(state), nil
}

// HandleCallback processes the OAuth2 callback, exchanges code, upserts user, and returns a JWT.
func (s *AuthService) HandleCallback(ctx context.Context, providerName, code string) (string, *domain.User, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return "", nil, domain.NewInvalidInput("unknown provider %s", providerName)
	}

	tokens, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%w: exchange code: %w", domain.ErrUnauthenticated, err)
	}

	profile, err := provider.GetUserProfile(ctx, tokens.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("get profile: %w", err)
	}
	// Stored so repository reads run with the user's own GitHub access
	profile.AccessToken = tokens.AccessToken

	user, _, err := s.users.UpsertUser(ctx, *profile)
	if err != nil {
		return "", nil, fmt.Errorf("upsert user: %w", err)
	}

	jwt, err := middleware.GenerateJWT(user, s.jwtCfg)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("provider", providerName).Msg("user authenticated")
	return jwt, user, nil
}

// SyncUser creates or updates the user record keyed by GitHub ID.
func (s *AuthService) SyncUser(ctx context.Context, in domain.UserUpsert) (*domain.User, bool, error) {
	if in.GitHubID == "" {
		return nil, false, domain.NewInvalidInput("githubId is required")
	}
	user, created, err := s.users.UpsertUser(ctx, in)
	if err != nil {
		return nil, false, fmt.Errorf("sync user: %w", err)
	}
	return user, created, nil
}

// GitHubToken returns the stored GitHub access token of the session user,
// or "" so the caller falls back to the server credential.
func (s *AuthService) GitHubToken(ctx context.Context, uc *domain.UserContext) string {
	if uc == nil || uc.UserID == "" {
		return ""
	}
	user, err := s.users.GetUserByID(ctx, uc.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", uc.UserID).Msg("falling back to server github token")
		return ""
	}
	return user.AccessToken
}
