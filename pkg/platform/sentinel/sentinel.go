package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally wrapped)
// and services translate them into coded domain errors.
//
//   - ErrNotFound: row does not exist
//   - ErrConflict: a unique constraint rejected the write
//   - ErrExpired: a short-lived record (link code) has lapsed
//   - ErrUnavailable: the backing store could not be reached or the transaction failed
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
