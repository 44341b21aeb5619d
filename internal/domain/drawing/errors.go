package drawing

import "errors"

var (
	ErrDrawingNotFound = errors.New("drawing not found")
	ErrImageRequired   = errors.New("image url is required")
	ErrChildRequired   = errors.New("child is required")
)
