package generator

import "errors"

// Sentinel errors for the generation pipeline
var (
	// ErrConfiguration reports a missing or unusable run parameter, such as a
	// row count that is not a non-negative integer.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrResource reports an input (the word list) that could not be opened or read.
	ErrResource = errors.New("resource unavailable")

	// ErrSampling reports a draw that asked for more distinct words than exist.
	ErrSampling = errors.New("not enough words to sample")
)
