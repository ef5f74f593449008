package server

import "errors"

var (
	// ErrTooManySessions is returned when MaxSessions is reached.
	ErrTooManySessions = errors.New("server: session limit reached")

	// ErrSessionNotFound is returned when looking up an unknown session.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrSessionClosed is returned when sending on a closed session.
	ErrSessionClosed = errors.New("server: session closed")
)
