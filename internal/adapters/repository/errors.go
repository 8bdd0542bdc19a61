package repository

import "errors"

// Sentinel kinds for reference data errors.
var (
	ErrInvalidSource = errors.New("invalid skill reference source")
	ErrMissingColumn = errors.New("missing required column")
	ErrNoRows        = errors.New("skill reference has no rows")
)
