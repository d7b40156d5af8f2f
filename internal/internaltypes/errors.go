package internaltypes

import "errors"

var (
	// ErrNotFound marks an absent storage key or row.
	ErrNotFound = errors.New("not found")
)
