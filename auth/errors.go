package auth

import "errors"

// Sentinel errors for token signing and verification.
var (
	ErrMissingSecret      = errors.New("auth: signing secret is empty")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenMalformed     = errors.New("auth: token malformed")
)
