package domain

import "errors"

var (
	// ErrQuestionNotFound indicates the catalog has no question with that ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrParticipantNotFound is returned when a connection acts before joining.
	ErrParticipantNotFound = errors.New("participant not found in session")
	// ErrSessionNotRunning is returned for admin reads that need a live round.
	ErrSessionNotRunning = errors.New("session not running")
)
