package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/mwhitt/trivvy/internal/repositories/session Repository

import (
	"context"

	"github.com/mwhitt/trivvy/internal/models"
)

// Repository defines the interface for trivia session persistence
type Repository interface {
	// GetSession retrieves the session for a guild. Returns ErrSessionNotFound
	// when no session exists; a malformed stored record is treated the same
	// way after logging, so corruption never propagates to the caller.
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// SaveSession persists a session atomically
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// DeleteSession removes a session. Deleting an absent session is not an error.
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error

	// GetAllSessions retrieves every stored session, skipping corrupt records
	GetAllSessions(ctx context.Context, input *GetAllSessionsInput) (*GetAllSessionsOutput, error)
}
