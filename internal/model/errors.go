package model

import "errors"

// Common errors used across the application
var (
	// Admission errors
	ErrDuplicateJoin = errors.New("connection already has an active player")
	ErrMissingID     = errors.New("player id is required")
	ErrInvalidRating = errors.New("rating must be a finite number")

	// Dispatch errors
	ErrInvalidMessage = errors.New("malformed message")
	ErrUnknownKind    = errors.New("unrecognized message kind")
	ErrNoOpponent     = errors.New("no opponent to forward to")

	// History errors
	ErrMatchNotFound = errors.New("match not found")
)
