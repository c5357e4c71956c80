package models

import (
	"errors"
	"time"
)

var (
	// ErrEmptyGuildID is returned when a session has no guild ID
	ErrEmptyGuildID = errors.New("guild ID cannot be empty")

	// ErrActivityBeforeCreation is returned when a session's last activity
	// precedes its creation time
	ErrActivityBeforeCreation = errors.New("last activity cannot be before created at")
)

// Session represents the current active trivia round for a Discord guild.
// One session exists per guild; it owns its answers exclusively.
type Session struct {
	// GuildID is the Discord server/guild this session belongs to
	GuildID string `json:"guild_id"`

	// Answers maps user IDs to their submitted answers
	Answers map[string]*Answer `json:"answers"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"created_at"`

	// LastActivity is when the session was last mutated
	LastActivity time.Time `json:"last_activity"`
}

// NewSession creates an empty session for a guild
func NewSession(guildID string, now time.Time) (*Session, error) {
	if guildID == "" {
		return nil, ErrEmptyGuildID
	}

	now = now.UTC()

	return &Session{
		GuildID:      guildID,
		Answers:      make(map[string]*Answer),
		CreatedAt:    now,
		LastActivity: now,
	}, nil
}

// AddOrUpdateAnswer inserts the answer, replacing any previous answer from the
// same user. Returns true if an existing answer was replaced.
func (s *Session) AddOrUpdateAnswer(answer *Answer, now time.Time) bool {
	if s.Answers == nil {
		s.Answers = make(map[string]*Answer)
	}

	_, isUpdate := s.Answers[answer.UserID]
	answer.IsUpdated = isUpdate
	s.Answers[answer.UserID] = answer
	s.LastActivity = now.UTC()

	return isUpdate
}

// GetAnswer returns the answer submitted by a user, if any
func (s *Session) GetAnswer(userID string) (*Answer, bool) {
	answer, ok := s.Answers[userID]
	return answer, ok
}

// AllAnswers returns all answers in the session
func (s *Session) AllAnswers() []*Answer {
	answers := make([]*Answer, 0, len(s.Answers))
	for _, answer := range s.Answers {
		answers = append(answers, answer)
	}

	return answers
}

// Validate checks the session invariants
func (s *Session) Validate() error {
	if s.GuildID == "" {
		return ErrEmptyGuildID
	}

	if s.CreatedAt.IsZero() || s.LastActivity.IsZero() {
		return ErrZeroTimestamp
	}

	if s.LastActivity.Before(s.CreatedAt) {
		return ErrActivityBeforeCreation
	}

	return nil
}
