package ledger

import "errors"

// Errors returned by transitions. Use errors.Is to test for them.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)
