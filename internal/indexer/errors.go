package indexer

import "errors"

var (
	// ErrEmptyInput means the extractor found no SQL-bearing lines. A
	// build must fail loudly here instead of installing an empty index,
	// so callers can tell "no SQL found" apart from "match failed".
	ErrEmptyInput = errors.New("no SQL-related code found")

	// ErrNoIndex means analyze was called before any successful build.
	ErrNoIndex = errors.New("codebase not indexed yet")

	// ErrIndexingTimeout means the embedding step exceeded its budget.
	// The previously active index stays untouched.
	ErrIndexingTimeout = errors.New("indexing timed out while generating embeddings")
)
