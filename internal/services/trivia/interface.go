package trivia

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/mwhitt/trivvy/internal/services/trivia Service

import "context"

// Service defines the interface for trivia session operations
type Service interface {
	// SubmitAnswer records or replaces a user's answer for the guild's
	// current round, creating the session lazily if none exists
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// GetSession retrieves the guild's current session
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// ResetSession deletes the guild's session entirely. Idempotent.
	ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error)

	// CreateSession persists a brand-new empty session, overwriting any
	// existing one. Used right before a new question is posted.
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// GetAllSessions returns every stored session, used for startup warm-up
	GetAllSessions(ctx context.Context, input *GetAllSessionsInput) (*GetAllSessionsOutput, error)
}
