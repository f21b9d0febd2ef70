package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// newTestUserStore needs a disposable Postgres in TEST_DATABASE_URL.
func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn := NewConnector(ConnectorConfig{DSN: dsn, AutoMigrate: true}, zerolog.Nop(), nil)
	t.Cleanup(func() { _ = conn.Close() })
	return NewUserStore(conn)
}

func TestUserStore_UpsertDefaults(t *testing.T) {
	s := newTestUserStore(t)
	ctx := context.Background()
	githubID := uuid.NewString()

	user, created, err := s.UpsertUser(ctx, domain.UserUpsert{GitHubID: githubID})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.DefaultUserName, user.Name)
	assert.Equal(t, githubID+"@github.com", user.Email)
}

func TestUserStore_UpsertIsIdempotent(t *testing.T) {
	s := newTestUserStore(t)
	ctx := context.Background()
	in := domain.UserUpsert{GitHubID: uuid.NewString(), Login: "mona", Name: "Mona", Email: "mona@example.com", Image: "https://img"}

	first, created, err := s.UpsertUser(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.UpsertUser(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Email, second.Email)

	// new display fields overwrite, empty ones keep the stored value
	third, _, err := s.UpsertUser(ctx, domain.UserUpsert{GitHubID: in.GitHubID, Name: "Mona Lisa"})
	require.NoError(t, err)
	assert.Equal(t, "Mona Lisa", third.Name)
	assert.Equal(t, "mona@example.com", third.Email)

	got, err := s.GetUserByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mona Lisa", got.Name)
}

func TestUserStore_GetUserByIDNotFound(t *testing.T) {
	s := newTestUserStore(t)
	_, err := s.GetUserByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, port.ErrUserNotFound)
}

func TestUserStore_RequiresGitHubID(t *testing.T) {
	s := NewUserStore(NewConnector(ConnectorConfig{DSN: "unused"}, zerolog.Nop(), nil))
	_, _, err := s.UpsertUser(context.Background(), domain.UserUpsert{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
