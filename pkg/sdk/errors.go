package civix

import "github.com/kailas-cloud/civix/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	ErrInvalidQuery     = domain.ErrInvalidQuery
)
