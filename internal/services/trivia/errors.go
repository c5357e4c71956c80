package trivia

import "errors"

// Define errors
var (
	ErrSessionNotFound = errors.New("no trivia session for this guild")
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrNilSessionRepo  = errors.New("session repository cannot be nil")
	ErrNilClock        = errors.New("clock cannot be nil")
)
