package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name   string
		method string
		path   string
		public bool
	}{
		{"register", "POST", "/api/auth/register", true},
		{"login", "POST", "/api/auth/login", true},
		{"refresh", "POST", "/api/auth/refresh", true},
		{"user list", "GET", "/api/users", true},
		{"user detail numeric id", "GET", "/api/users/7", true},
		{"user detail non-numeric id", "GET", "/api/users/abc", false},
		{"post list", "GET", "/api/posts", true},
		{"post detail", "GET", "/api/posts/123", true},
		{"post search", "GET", "/api/posts/search", true},
		{"posts by author", "GET", "/api/posts/author/3", true},
		{"post create", "POST", "/api/posts", false},
		{"post update", "PUT", "/api/posts/123", false},
		{"post delete", "DELETE", "/api/posts/123", false},
		{"user create", "POST", "/api/users", false},
		{"method mismatch on public path", "DELETE", "/api/users", false},
		{"trailing segment breaks exact match", "GET", "/api/users/7/extra", false},
		{"unknown path", "GET", "/api/unknown", false},
		{"health", "GET", "/health/live", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.public, policy.IsPublic(tc.method, tc.path))
		})
	}
}

func TestPolicyFirstMatchWins(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Method: "GET", Pattern: "/things/:id"},
		{Method: "GET", Pattern: "/things/special"},
	})

	assert.True(t, policy.IsPublic("GET", "/things/42"))
	// The non-numeric segment falls through the wildcard to the exact rule.
	assert.True(t, policy.IsPublic("GET", "/things/special"))
	assert.False(t, policy.IsPublic("GET", "/things/other"))
}
