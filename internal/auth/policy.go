package auth

import "strings"

// Rule describes a public route: requests matching it pass the authentication
// middleware without a credential check.
type Rule struct {
	Method  string
	Pattern string
}

// Policy is a static, ordered table of public routes. Matching is
// first-match-wins; a request matching no rule requires authentication.
// Patterns are exact paths whose ":id" segments match a single numeric path
// segment. The table is read-only after construction.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from ordered rules.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy lists the routes that are reachable without authentication:
// the credential endpoints themselves plus the read-only user and post
// listings. Everything else requires a bound principal.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Method: "POST", Pattern: "/api/auth/register"},
		{Method: "POST", Pattern: "/api/auth/login"},
		{Method: "POST", Pattern: "/api/auth/refresh"},
		{Method: "POST", Pattern: "/api/auth/validate"},
		{Method: "GET", Pattern: "/api/auth/me"},
		{Method: "GET", Pattern: "/api/users"},
		{Method: "GET", Pattern: "/api/users/:id"},
		{Method: "GET", Pattern: "/api/posts"},
		{Method: "GET", Pattern: "/api/posts/:id"},
		{Method: "GET", Pattern: "/api/posts/author/:id"},
		{Method: "GET", Pattern: "/api/posts/search"},
		{Method: "GET", Pattern: "/health/live"},
		{Method: "GET", Pattern: "/health/ready"},
	})
}

// IsPublic reports whether the request may skip authentication.
func (p *Policy) IsPublic(method, path string) bool {
	for _, rule := range p.rules {
		if rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patSegs {
		if seg == ":id" {
			if !isNumeric(pathSegs[i]) {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
