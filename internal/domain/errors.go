package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the kind shared by every lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is the kind for missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistence tags failures of the durable score store.
	ErrPersistence = errors.New("persistence failure")
)

var (
	// ErrSessionNotFound is returned when a test session id is unknown.
	ErrSessionNotFound = fmt.Errorf("test session %w", ErrNotFound)
	// ErrTaskNotFound is returned when a task id does not belong to the session.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
	// ErrPlayerNotFound is returned when no score was saved for a player.
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)
	// ErrPlayerRequired is returned when a score is saved without a player name.
	ErrPlayerRequired = fmt.Errorf("%w: player is required", ErrInvalidInput)
)
