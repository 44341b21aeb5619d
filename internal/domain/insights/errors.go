package insights

import "errors"

var ErrTranscriptRequired = errors.New("transcript is required")
