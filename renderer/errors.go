package renderer

import "errors"

var (
	ErrNoOutputs   = errors.New("renderer: no output paths and no display pass for a file-output render")
	ErrInvalidSize = errors.New("renderer: frame dimensions must be positive")
	ErrNoSession   = errors.New("renderer: no active session")
)
