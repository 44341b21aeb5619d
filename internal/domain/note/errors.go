package note

import "errors"

var (
	ErrNoteNotFound       = errors.New("note not found")
	ErrTranscriptRequired = errors.New("transcript is required")
	ErrUnknownChild       = errors.New("child does not belong to this family")
	ErrInvalidSentiment   = errors.New("invalid sentiment")
	ErrNotAuthor          = errors.New("only the author or an owner/admin can modify a note")
)
