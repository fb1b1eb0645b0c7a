package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "service-test-signing-secret-0123456789",
			AccessTokenTTLMS:  3600000,
			RefreshTokenTTLMS: 604800000,
			BcryptCost:        4,
		},
	}
}

func newTestAuthService() (*AuthService, *testutil.MemoryUserRepo) {
	repo := testutil.NewMemoryUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash, "password must be stored hashed")

	_, err = svc.Register(ctx, "alice", "other@x.com", "secret2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "bob", "a@x.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefresh(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	user, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEmpty(t, next.RefreshToken)

	// Rotation does not revoke the previous refresh token.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)

	// An access token is not exchangeable.
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.Delete("alice")
	_, _, err = svc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateToken(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	assert.True(t, svc.ValidateToken(pair.AccessToken))
	assert.False(t, svc.ValidateToken(pair.RefreshToken), "refresh tokens are not bearer credentials")
	assert.False(t, svc.ValidateToken("garbage"))
	assert.False(t, svc.ValidateToken(""))
}

func TestValidateTokenExpiry(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	// Advance the verification clock past the access TTL.
	svc.TokenManager().WithClock(func() time.Time {
		return time.Now().Add(2 * time.Hour)
	})
	assert.False(t, svc.ValidateToken(pair.AccessToken))
	// The week-long refresh token is still within its own TTL.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestUserFromToken(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	user, err := svc.UserFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.UserFromToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.UserFromToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	repo.Delete("alice")
	_, err = svc.UserFromToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
