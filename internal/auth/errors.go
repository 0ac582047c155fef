package auth

import "errors"

// Sentinel kinds for auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMisconfigured      = errors.New("auth misconfigured")
	ErrEmptyPassword      = errors.New("empty password")
)
