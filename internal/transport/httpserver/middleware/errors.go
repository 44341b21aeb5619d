package middleware

import "errors"

var (
	errAuthNotConfigured = errors.New("auth not configured")
	errInvalidToken      = errors.New("invalid token")
)
