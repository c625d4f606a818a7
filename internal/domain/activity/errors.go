package activity

import "errors"

var (
	// ErrInvalidInput is returned for entries missing required fields.
	ErrInvalidInput = errors.New("invalid history entry")
)
