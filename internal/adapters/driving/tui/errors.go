package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingContextService is returned when the context service is not provided.
var ErrMissingContextService = errors.New("tui: context service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
