package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/testutil"
)

func newMiddlewareTestApp(t *testing.T) (*fiber.App, *TokenManager, *testutil.MemoryUserRepo) {
	t.Helper()

	repo := testutil.NewMemoryUserRepo()
	tokens := NewTokenManager(testSecret, time.Minute, time.Hour)
	middleware := NewMiddleware(tokens, repo, DefaultPolicy(), zap.NewNop())

	app := fiber.New()
	app.Use(middleware.Handle)

	app.Get("/api/posts", func(c *fiber.Ctx) error {
		_, authenticated := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"authenticated": authenticated})
	})
	app.Post("/api/posts", RequireAuthenticated(), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"username": principal.Username, "role": principal.Role})
	})
	app.Delete("/api/admin", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return app, tokens, repo
}

func seedUser(t *testing.T, repo *testutil.MemoryUserRepo, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
		Role:         domain.RoleUser,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestMiddlewareSkipsPublicRoutes(t *testing.T) {
	app, _, _ := newMiddlewareTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareNeverRejectsItself(t *testing.T) {
	app, _, _ := newMiddlewareTestApp(t)

	// A garbage credential on a public route still goes through.
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRouteRequiresPrincipal(t *testing.T) {
	app, tokens, repo := newMiddlewareTestApp(t)
	user := seedUser(t, repo, "alice")

	tests := []struct {
		name   string
		header func() string
		status int
	}{
		{"no header", func() string { return "" }, http.StatusUnauthorized},
		{"malformed header", func() string { return "Token abc" }, http.StatusUnauthorized},
		{"garbage token", func() string { return "Bearer junk" }, http.StatusUnauthorized},
		{"refresh token as bearer", func() string {
			token, err := tokens.GenerateRefreshToken(user.Username)
			require.NoError(t, err)
			return "Bearer " + token
		}, http.StatusUnauthorized},
		{"valid access token", func() string {
			token, err := tokens.GenerateAccessToken(user.Username, user.ID)
			require.NoError(t, err)
			return "Bearer " + token
		}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
			if header := tc.header(); header != "" {
				req.Header.Set(fiber.HeaderAuthorization, header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestDeletedUserIsUnauthenticated(t *testing.T) {
	app, tokens, repo := newMiddlewareTestApp(t)
	user := seedUser(t, repo, "alice")

	token, err := tokens.GenerateAccessToken(user.Username, user.ID)
	require.NoError(t, err)

	repo.Delete("alice")

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleIsReadAtRequestTime(t *testing.T) {
	app, tokens, repo := newMiddlewareTestApp(t)
	user := seedUser(t, repo, "alice")

	token, err := tokens.GenerateAccessToken(user.Username, user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Promote without reissuing the token; the next request sees the change.
	repo.SetRole("alice", domain.RoleAdmin)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	token, ok = BearerToken("bearer abc")
	assert.True(t, ok, "scheme comparison is case-insensitive")
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		_, ok := BearerToken(header)
		assert.False(t, ok, "header %q must not parse", header)
	}
}
