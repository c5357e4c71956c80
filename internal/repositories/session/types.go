package session

import "github.com/mwhitt/trivvy/internal/models"

type GetSessionInput struct {
	GuildID string
}

type SaveSessionInput struct {
	Session *models.Session
}

type DeleteSessionInput struct {
	GuildID string
}

type GetAllSessionsInput struct {
}

type GetAllSessionsOutput struct {
	// Sessions is keyed by guild ID
	Sessions map[string]*models.Session
}

type MigrateOutput struct {
	// Migrated is the number of sessions copied and marked as migrated
	Migrated int

	// Failed is the number of records skipped due to individual failures
	Failed int
}
