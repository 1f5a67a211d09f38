package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrEmptyResponse    = errors.New("empty response body")
	ErrMissingURLColumn = errors.New("seed table has no URL column")
	ErrEmptySchema      = errors.New("template schema has no columns")
)

// FetchError wraps errors that occur while fetching a listing page.
// Fetches are attempt-once: the caller decides whether to skip the row
// or abort the run.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while writing output tables or
// archiving scraped listings.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
