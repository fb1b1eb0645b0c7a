package service

import "errors"

// Sentinel errors surfaced by the service layer. Handlers translate these
// into the HTTP error taxonomy; no lower-level detail crosses this boundary.
var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostAuthor      = errors.New("only the author may modify this post")
)
