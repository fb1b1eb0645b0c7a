package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/repository"
)

const principalKey = "auth_principal"

// Principal is the request-scoped resolved identity. It is constructed fresh
// per request by the middleware and discarded when the request completes.
type Principal struct {
	UserID        int64
	Username      string
	Role          string
	Authenticated bool
}

// Middleware verifies bearer tokens and binds a Principal to the request.
// It is purely advisory: every failure mode forwards the request
// unauthenticated, and rejection is left to the route-level guards in
// roles.go. Adding a protected route therefore needs no middleware change.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	policy *Policy
	logger *zap.Logger
}

// NewMiddleware constructs the authentication middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, policy *Policy, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, policy: policy, logger: logger}
}

// Handle runs on every request: skip public routes, otherwise attempt to
// resolve a Principal from the Authorization header.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if m.policy.IsPublic(c.Method(), c.Path()) {
		return c.Next()
	}

	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	// A refresh token presented as a bearer credential is treated exactly
	// like an invalid token.
	if !m.tokens.IsValid(token) || !m.tokens.IsAccessToken(token) {
		return c.Next()
	}

	username, err := m.tokens.ExtractUsername(token)
	if err != nil {
		return c.Next()
	}

	// Role is re-read from the store on every request so a role change takes
	// effect without reissuing tokens. A deleted identity unauthenticates.
	user, err := m.users.GetByUsername(c.Context(), username)
	if err != nil {
		m.logger.Debug("token subject not resolvable", zap.String("username", username))
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		UserID:        user.ID,
		Username:      user.Username,
		Role:          string(user.Role),
		Authenticated: true,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	if !ok || !principal.Authenticated {
		return nil, false
	}
	return principal, true
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
