package domain

// TokenType differentiates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is a freshly issued access/refresh credential set.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
