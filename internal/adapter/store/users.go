package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// UserStore persists users in Postgres through the shared connector.
type UserStore struct {
	conn *Connector
}

var _ port.UserStore = (*UserStore)(nil)

// NewUserStore creates a user store.
func NewUserStore(conn *Connector) *UserStore {
	return &UserStore{conn: conn}
}

// Inserts fall back to the defaults for empty display fields. Updates keep
// the stored value for empty fields. xmax is zero only for a freshly
// inserted row.
const upsertUserQuery = `
	INSERT INTO users (github_id, login, name, email, image, access_token)
	VALUES ($1, $2, COALESCE(NULLIF($3, ''), $7), COALESCE(NULLIF($4, ''), $8), $5, $6)
	ON CONFLICT (github_id) DO UPDATE SET
		login        = COALESCE(NULLIF(EXCLUDED.login, ''), users.login),
		name         = COALESCE(NULLIF($3, ''), users.name),
		email        = COALESCE(NULLIF($4, ''), users.email),
		image        = COALESCE(NULLIF(EXCLUDED.image, ''), users.image),
		access_token = COALESCE(NULLIF(EXCLUDED.access_token, ''), users.access_token),
		updated_at   = NOW()
	RETURNING id, github_id, login, name, email, image, access_token, created_at, updated_at, (xmax = 0) AS inserted`

// UpsertUser creates or updates the user keyed by GitHub ID. The bool is
// true when a new row was created.
func (s *UserStore) UpsertUser(ctx context.Context, u domain.UserUpsert) (*domain.User, bool, error) {
	if u.GitHubID == "" {
		return nil, false, domain.NewInvalidInput("githubId is required")
	}
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, false, err
	}

	row := db.QueryRowContext(ctx, upsertUserQuery,
		u.GitHubID, u.Login, u.Name, u.Email, u.Image, u.AccessToken,
		domain.DefaultUserName, domain.DefaultEmail(u.GitHubID),
	)

	var user domain.User
	var inserted bool
	err = row.Scan(
		&user.ID, &user.GitHubID, &user.Login, &user.Name, &user.Email,
		&user.Image, &user.AccessToken, &user.CreatedAt, &user.UpdatedAt, &inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	return &user, inserted, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, github_id, login, name, email, image, access_token, created_at, updated_at
	          FROM users WHERE id = $1`

	var user domain.User
	err = db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.GitHubID, &user.Login, &user.Name, &user.Email,
		&user.Image, &user.AccessToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", port.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
