package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown rewriter backend or store type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline precondition errors. These abort a run before any batch starts.

	// ErrMissingCredential indicates the rewriting backend credential is absent.
	// The rewrite coordinator refuses to start without it.
	ErrMissingCredential = errors.New("missing backend credential")

	// ErrCorpusUnreadable indicates the input corpus artifact could not be read.
	ErrCorpusUnreadable = errors.New("corpus unreadable")

	// Rewriting backend errors. These are per-record and never fatal.

	// ErrRewriterUnavailable indicates no rewriting backend is configured.
	ErrRewriterUnavailable = errors.New("rewriting backend unavailable")

	// ErrMalformedResponse indicates the backend returned a payload that does
	// not contain a decodable {question, explanation} object.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrCorpusInvalid indicates validation found at least one error.
	// Returned by strict-mode validation to fail the calling process.
	ErrCorpusInvalid = errors.New("corpus failed validation")
)
