package child

import "errors"

var (
	ErrChildNotFound = errors.New("child not found")
	ErrNameRequired  = errors.New("name is required")
)
