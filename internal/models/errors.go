package models

import "errors"

// Sentinel errors for the answering pipeline. Callers wrap them with fmt.Errorf("%w: %w", ...)
// and match with errors.Is.
var (
	// ErrCorpusLoad means the corpus file could not be read or understood. Fatal at startup.
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrCorpusFormat means the corpus top-level shape is neither an aggregate nor a list of aggregates.
	ErrCorpusFormat = errors.New("unrecognized corpus format")
	// ErrEmbedding means the embedding provider failed for a question.
	ErrEmbedding = errors.New("embedding failed")
	// ErrCompletion means the completion provider failed or timed out.
	ErrCompletion = errors.New("completion failed")
	// ErrMediaDecode means an attached image was not valid base64. Never fatal.
	ErrMediaDecode = errors.New("media decode failed")
	// ErrDimensionMismatch means a query vector does not match the index dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidRequest means the caller sent a malformed or empty question.
	ErrInvalidRequest = errors.New("invalid request")
)
