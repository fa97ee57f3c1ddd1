package services

import (
	"errors"
	"log"
)

// Engine error taxonomy. All of these are expected, recoverable conditions
// surfaced to the caller as typed results; anything else bubbling out of a
// service method is a storage-layer failure the caller may retry whole.
var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrInvalidState    = errors.New("operation not valid for the match's current state")
	ErrSelfJoin        = errors.New("cannot join your own match")
	ErrNotAParticipant = errors.New("player is not a participant in this match")
	ErrDuplicateMove   = errors.New("player has already moved in this match")
	ErrLimitExceeded   = errors.New("too many open matches")
	ErrInvalidChoice   = errors.New("choice must be ROCK, PAPER or SCISSORS")
	ErrPlayerNoMatches = errors.New("player has no completed matches")
	ErrNotViewable     = errors.New("match is not viewable by this player")
)

// retryRead runs an idempotent read, retrying once on a storage failure.
// Writes are never retried here; they are surfaced unchanged so the caller
// can retry the whole operation.
func retryRead(fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	log.Printf("⚠️ Read failed, retrying once: %v", err)
	return fn()
}
