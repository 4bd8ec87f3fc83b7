package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGame signals the not-found condition: no game is in progress on
	// the server. Callers treat this as the cue to bootstrap a fresh game
	// rather than retry the fetch.
	ErrNoGame = errors.New("no active game")

	// ErrMalformed signals a payload missing required fields (a snapshot
	// without a players sequence). The response is discarded and local
	// state kept.
	ErrMalformed = errors.New("malformed snapshot payload")
)

// RejectedError is a 4xx refusal of an action request. Local state must not
// be marked acted when one of these comes back.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.Status, e.Body)
}

// IsRejected reports whether err is an action refusal from the server.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}
