package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// DefaultScopes lets the session token read the user's repositories.
var DefaultScopes = []string{"read:user", "user:email", "repo"}

// GitHubConfig configures the OAuth app.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Endpoint overrides github.com (tests, GitHub Enterprise).
	Endpoint *oauth2.Endpoint
	// APIBaseURL overrides https://api.github.com/.
	APIBaseURL string
}

// GitHubProvider implements port.AuthProvider for GitHub OAuth.
type GitHubProvider struct {
	oauth      *oauth2.Config
	apiBase    *url.URL
	httpClient *http.Client
}

var _ port.AuthProvider = (*GitHubProvider)(nil)

// NewGitHubProvider creates a new GitHub OAuth provider. httpClient may be nil.
func NewGitHubProvider(cfg GitHubConfig, httpClient *http.Client) (*GitHubProvider, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	endpoint := githuboauth.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	p := &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
	}
	if cfg.APIBaseURL != "" {
		base := cfg.APIBaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: parse api base url: %w", err)
		}
		p.apiBase = u
	}
	return p, nil
}

// ProviderName returns "github".
func (g *GitHubProvider) ProviderName() string {
	return "github"
}

// AuthURL returns the GitHub OAuth consent screen URL.
func (g *GitHubProvider) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for tokens.
func (g *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: token exchange: %w", err)
	}

	pair := &domain.TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		pair.ExpiresIn = int(time.Until(tok.Expiry).Seconds())
	}
	return pair, nil
}

func (g *GitHubProvider) client(accessToken string) *github.Client {
	c := github.NewClient(g.httpClient).WithAuthToken(accessToken)
	if g.apiBase != nil {
		c.BaseURL = g.apiBase
	}
	return c
}

// GetUserProfile fetches the GitHub user profile using an access token.
func (g *GitHubProvider) GetUserProfile(ctx context.Context, accessToken string) (*domain.UserUpsert, error) {
	client := g.client(accessToken)

	u, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("github: fetch profile: %w", err)
	}

	// If email is private, fall back to the emails endpoint
	email := u.GetEmail()
	if email == "" {
		email, _ = g.fetchPrimaryEmail(ctx, client)
	}

	name := u.GetName()
	if name == "" {
		name = u.GetLogin()
	}

	return &domain.UserUpsert{
		GitHubID:    strconv.FormatInt(u.GetID(), 10),
		Login:       u.GetLogin(),
		Name:        name,
		Email:       email,
		Image:       u.GetAvatarURL(),
		AccessToken: accessToken,
	}, nil
}

// fetchPrimaryEmail gets the user's primary verified email.
func (g *GitHubProvider) fetchPrimaryEmail(ctx context.Context, client *github.Client) (string, error) {
	emails, _, err := client.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			return e.GetEmail(), nil
		}
	}
	if len(emails) > 0 {
		return emails[0].GetEmail(), nil
	}
	return "", fmt.Errorf("no email found")
}
