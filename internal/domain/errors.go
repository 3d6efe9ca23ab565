package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey indicates the ad or page already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrSourceUnavailable indicates the ads source could not be fetched.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord indicates the source returned an ad with unusable fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrStoreUnavailable indicates the persistence layer failed.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrNotFound = errors.New("not found")
)

// SourceError wraps a failed source call for a page.
type SourceError struct {
	PageID string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetch ads for page %s: %v", e.PageID, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

// StoreError wraps a failed persistence operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
