package domain

import "time"

// User represents a signed-in GitHub user.
type User struct {
	ID          string    `json:"id"         db:"id"`
	GitHubID    string    `json:"githubId"   db:"github_id"`
	Login       string    `json:"login"      db:"login"`
	Name        string    `json:"name"       db:"name"`
	Email       string    `json:"email"      db:"email"`
	Image       string    `json:"image"      db:"image"`
	AccessToken string    `json:"-"          db:"access_token"` // never serialized to JSON
	CreatedAt   time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"  db:"updated_at"`
}

// UserUpsert carries the fields written on sign-in. Empty fields keep the
// stored value for existing users.
type UserUpsert struct {
	GitHubID    string
	Login       string
	Name        string
	Email       string
	Image       string
	AccessToken string
}

// Defaults applied when a user is created without display fields.
const DefaultUserName = "GitHub User"

// DefaultEmail builds the placeholder address for users without a public email.
func DefaultEmail(githubID string) string {
	return githubID + "@github.com"
}

// TokenPair holds the OAuth2 tokens returned after code exchange.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserContext is the authenticated user context injected into request handlers.
type UserContext struct {
	UserID   string `json:"user_id"`
	GitHubID string `json:"github_id"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
