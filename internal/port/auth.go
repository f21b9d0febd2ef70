package port

import (
	"context"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// AuthProvider abstracts the OAuth2 identity provider.
type AuthProvider interface {
	// ProviderName returns the name of this provider (e.g. "github").
	ProviderName() string

	// AuthURL returns the full OAuth2 authorization URL for redirecting the user.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error)

	// GetUserProfile fetches the authenticated user's profile from the provider.
	GetUserProfile(ctx context.Context, accessToken string) (*domain.UserUpsert, error)
}

// AuthProviderRegistry holds multiple AuthProvider implementations keyed by name.
type AuthProviderRegistry map[string]AuthProvider

// UserStore persists signed-in users.
type UserStore interface {
	// UpsertUser creates or updates the user keyed by GitHub identity.
	UpsertUser(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error)

	// GetUserByID returns ErrUserNotFound when no row matches.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
