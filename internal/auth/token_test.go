package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret-with-enough-bytes"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(now time.Time) *TokenManager {
	return NewTokenManager(testSecret, 10*time.Second, time.Hour).WithClock(fixedClock(now))
}

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := newTestManager(now)

	token, err := tm.GenerateAccessToken("alice", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, tm.IsValid(token))
	assert.True(t, tm.IsAccessToken(token))
	assert.False(t, tm.IsRefreshToken(token))

	username, err := tm.ExtractUsername(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	userID, err := tm.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestGenerateRefreshTokenCarriesNoUserID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := newTestManager(now)

	token, err := tm.GenerateRefreshToken("alice")
	require.NoError(t, err)

	assert.True(t, tm.IsValid(token))
	assert.False(t, tm.IsAccessToken(token))
	assert.True(t, tm.IsRefreshToken(token))

	userID, err := tm.ExtractUserID(token)
	require.NoError(t, err)
	assert.Zero(t, userID)
}

func TestExpiryBoundaryIsExclusive(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	tm := newTestManager(issued)

	// accessTTL is 10s, so the token expires at issued+10s.
	token, err := tm.GenerateAccessToken("alice", 1)
	require.NoError(t, err)

	tm.WithClock(fixedClock(issued.Add(9 * time.Second)))
	assert.True(t, tm.IsValid(token), "one second before expiry must be valid")

	tm.WithClock(fixedClock(issued.Add(10 * time.Second)))
	assert.False(t, tm.IsValid(token), "the expiry instant itself counts as expired")

	tm.WithClock(fixedClock(issued.Add(11 * time.Second)))
	assert.False(t, tm.IsValid(token))
}

func TestIsValidIsIdempotent(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := newTestManager(now)

	token, err := tm.GenerateAccessToken("alice", 1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.True(t, tm.IsValid(token))
	}
}

func TestTamperedTokenIsRejected(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := newTestManager(now)

	token, err := tm.GenerateAccessToken("alice", 1)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		tampered := token[:i] + string(tamperChar(token[i])) + token[i+1:]
		assert.False(t, tm.IsValid(tampered), "tamper at position %d must invalidate", i)
	}
}

// tamperChar picks a replacement whose decoded bits differ from the original
// even at segment-final positions, where base64url leaves low bits unused.
func tamperChar(c byte) byte {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	if strings.IndexByte(alphabet, c) >= 48 {
		return 'A'
	}
	return '9'
}

func TestWrongSecretIsRejected(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := newTestManager(now)
	other := NewTokenManager("a-completely-different-signing-secret!!", 10*time.Second, time.Hour).
		WithClock(fixedClock(now))

	token, err := tm.GenerateAccessToken("alice", 1)
	require.NoError(t, err)

	assert.False(t, other.IsValid(token))
	assert.False(t, other.IsAccessToken(token))
}

func TestMalformedTokensFailClosed(t *testing.T) {
	tm := newTestManager(time.Unix(1700000000, 0))

	for _, token := range []string{"", "garbage", "a.b", "a.b.c", "....."} {
		assert.False(t, tm.IsValid(token))
		assert.False(t, tm.IsAccessToken(token))
		assert.False(t, tm.IsRefreshToken(token))

		_, err := tm.ExtractUsername(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = tm.ExtractUserID(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
