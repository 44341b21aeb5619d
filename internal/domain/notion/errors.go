package notion

import "errors"

var (
	ErrNotConfigured      = errors.New("notion integration is not configured")
	ErrNotConnected       = errors.New("notion is not connected")
	ErrStateNotFound      = errors.New("oauth state not found")
	ErrStateExpired       = errors.New("oauth state expired")
	ErrTranscriptRequired = errors.New("transcript is required")
)
