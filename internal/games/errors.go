package games

import "errors"

var (
	// ErrGameNotFound is returned when no snapshot exists for a game id.
	ErrGameNotFound = errors.New("game not found")
	// ErrStaleState is returned when a snapshot write is based on an outdated version.
	ErrStaleState = errors.New("stale game state")
	// ErrUnknownCommand is returned for command types the dispatcher does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidCommand is returned when a command lacks the fields its type needs.
	ErrInvalidCommand = errors.New("invalid command")
)
