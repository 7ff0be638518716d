package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrCandidateNotFound signals a missing candidate record.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrInvalidRequest signals a search or candidate request that fails validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMalformedText signals candidate text that cannot be scanned.
	ErrMalformedText = errors.New("malformed text")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// DocumentError records a per-document failure during a search.
// The document is dropped; the search continues.
type DocumentError struct {
	DocumentID int64
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %d: %s", e.DocumentID, e.Err.Error())
}

func (e *DocumentError) Unwrap() error { return e.Err }

// NewDocumentError wraps err with the failing document id.
func NewDocumentError(documentID int64, err error) error {
	return &DocumentError{DocumentID: documentID, Err: err}
}
