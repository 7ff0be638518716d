package screener

import "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCandidateNotFound = domain.ErrCandidateNotFound
	ErrAlreadyExists     = domain.ErrAlreadyExists
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrMalformedText     = domain.ErrMalformedText
)
