package domain

import "errors"

var (
	// ErrValidation marks malformed or missing input. Nothing was changed.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEntry is returned when a day already has an entry.
	ErrDuplicateEntry = errors.New("an entry for this date already exists")
	// ErrStoreUnavailable wraps any failure of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAnalysisUnavailable is returned by completers that could not produce
	// an estimate.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)
