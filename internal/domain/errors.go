package domain

import "errors"

var (
	// ErrStoreUnavailable signals that the indicator store read could not be completed.
	ErrStoreUnavailable = errors.New("indicator store unavailable")
	// ErrInvalidQuery signals a query that cannot be translated into a store read.
	ErrInvalidQuery = errors.New("invalid query")
)
