package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoContextService indicates that no context service was provided.
	ErrNoContextService = errors.New("context service is required")
)
