package domain

import "errors"

var (
	// ErrConfiguration is raised before any stage runs, e.g. a missing credential.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidQuery rejects empty keywords and non-positive bounds.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDiscovery aborts a run when the search surface fails.
	ErrDiscovery = errors.New("discovery failed")
	// ErrEmbedding aborts a run when the embedding provider fails.
	ErrEmbedding = errors.New("embedding failed")
	// ErrGeneration aborts a run when the text-generation provider fails.
	ErrGeneration = errors.New("generation failed")
)
