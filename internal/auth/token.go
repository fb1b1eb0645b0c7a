package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// ErrInvalidToken is returned by claim extraction when the token fails
// verification. Callers are expected to gate extraction on IsValid.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies HS256-signed JWTs. Generation and
// verification are pure functions of (secret, claims, clock) and are safe for
// concurrent use; the secret and TTLs are immutable after construction.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the wall-clock source. Intended for tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// Claims describes the JWT payload. The username travels in the registered
// subject claim; userId is only present on access tokens.
type Claims struct {
	UserID    int64            `json:"userId,omitempty"`
	TokenType domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived token carrying username and user id.
func (tm *TokenManager) GenerateAccessToken(username string, userID int64) (string, error) {
	now := tm.now()
	claims := &Claims{
		UserID:    userID,
		TokenType: domain.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// GenerateRefreshToken signs a long-lived token carrying only the username.
func (tm *TokenManager) GenerateRefreshToken(username string) (string, error) {
	now := tm.now()
	claims := &Claims{
		TokenType: domain.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// IsValid reports whether the token parses, carries an HS256 signature made
// with our secret, and has not expired. The expiry instant itself counts as
// expired. Fail-closed: every malformed or tampered input yields false.
func (tm *TokenManager) IsValid(tokenStr string) bool {
	_, err := tm.parse(tokenStr)
	return err == nil
}

// IsAccessToken reports whether the token is valid and typed as an access
// token. Refresh tokens presented as bearer credentials fail this check.
func (tm *TokenManager) IsAccessToken(tokenStr string) bool {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return false
	}
	return claims.TokenType == domain.TokenTypeAccess
}

// IsRefreshToken reports whether the token is valid and typed as a refresh
// token. Only such tokens may be exchanged for a new pair.
func (tm *TokenManager) IsRefreshToken(tokenStr string) bool {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return false
	}
	return claims.TokenType == domain.TokenTypeRefresh
}

// ExtractUsername returns the subject claim of a verified token.
func (tm *TokenManager) ExtractUsername(tokenStr string) (string, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ExtractUserID returns the userId claim of a verified token. Refresh tokens
// carry no user id and yield zero.
func (tm *TokenManager) ExtractUserID(tokenStr string) (int64, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return tm.secret, nil
		},
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
