package trivia

import "github.com/mwhitt/trivvy/internal/models"

type SubmitAnswerInput struct {
	GuildID  string
	UserID   string
	Username string
	Text     string
}

type SubmitAnswerOutput struct {
	// Answer is the stored answer after validation and sanitization
	Answer *models.Answer

	// IsUpdate is true when the answer replaced a previous submission
	IsUpdate bool
}

type GetSessionInput struct {
	GuildID string
}

type GetSessionOutput struct {
	Session *models.Session
}

type ResetSessionInput struct {
	GuildID string
}

type ResetSessionOutput struct {
}

type CreateSessionInput struct {
	GuildID string
}

type CreateSessionOutput struct {
	Session *models.Session
}

type GetAllSessionsInput struct {
}

type GetAllSessionsOutput struct {
	Sessions map[string]*models.Session
}
