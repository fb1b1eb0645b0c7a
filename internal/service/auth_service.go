package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

// AuthService coordinates registration, login, token refresh and token
// introspection. Verification never touches the store; identity resolution
// does, so a deleted account invalidates its tokens on the next lookup.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with the default role. Username and email
// uniqueness is checked before the write; the store-level unique constraints
// back the check up against races.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user, nil)
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a fresh access/refresh pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.TokenPair{}, ErrUserNotFound
		}
		return nil, domain.TokenPair{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user, nil)
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new access/refresh
// pair. The previous refresh token is not revoked; it stays usable until its
// own expiry, an accepted trade-off of the stateless design.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, domain.TokenPair, error) {
	if !s.tokenMgr.IsValid(refreshToken) || !s.tokenMgr.IsRefreshToken(refreshToken) {
		return nil, domain.TokenPair{}, ErrInvalidToken
	}

	username, err := s.tokenMgr.ExtractUsername(refreshToken)
	if err != nil {
		return nil, domain.TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.TokenPair{}, ErrUserNotFound
		}
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.EventTokenRefreshed, user, nil)
	return user, pair, nil
}

// ValidateToken reports whether the token is a valid access token. All
// internal faults degrade to false; this function never errors outward.
func (s *AuthService) ValidateToken(token string) bool {
	return s.tokenMgr.IsValid(token) && s.tokenMgr.IsAccessToken(token)
}

// UserFromToken resolves the account behind a valid access token.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	if !s.ValidateToken(token) {
		return nil, ErrInvalidToken
	}

	username, err := s.tokenMgr.ExtractUsername(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issuePair(user *domain.User) (domain.TokenPair, error) {
	access, err := s.tokenMgr.GenerateAccessToken(user.Username, user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.tokenMgr.GenerateRefreshToken(user.Username)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
