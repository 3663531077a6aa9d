package progress

import "errors"

// Business outcomes, not system failures. Handlers map these to 4xx
// responses; nothing in this package panics or aborts over them.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("lesson already completed")
	ErrInvalidInput     = errors.New("invalid input")
)
