package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/models"
)

// storedSession mirrors the persisted JSON document. Answers are kept raw so
// a single malformed entry can be dropped without discarding the document.
type storedSession struct {
	GuildID      string                     `json:"guild_id"`
	Answers      map[string]json.RawMessage `json:"answers"`
	CreatedAt    json.RawMessage            `json:"created_at"`
	LastActivity json.RawMessage            `json:"last_activity"`
}

// encodeSession serializes a session after checking its invariants
func encodeSession(s *models.Session) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return data, nil
}

// decodeSession deserializes a stored session document. The guild_id field
// may be omitted in the stored form and reconstructed from the document key.
// Malformed answer entries are logged and skipped; a malformed document
// returns an error so the caller can treat the record as absent.
func decodeSession(data []byte, guildID string, log zerolog.Logger) (*models.Session, error) {
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if stored.GuildID == "" {
		stored.GuildID = guildID
	}

	sess := &models.Session{
		GuildID: stored.GuildID,
		Answers: make(map[string]*models.Answer, len(stored.Answers)),
	}

	if err := json.Unmarshal(stored.CreatedAt, &sess.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if err := json.Unmarshal(stored.LastActivity, &sess.LastActivity); err != nil {
		return nil, fmt.Errorf("failed to parse last_activity: %w", err)
	}

	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stored session: %w", err)
	}

	for userID, raw := range stored.Answers {
		var answer models.Answer
		if err := json.Unmarshal(raw, &answer); err != nil {
			log.Warn().
				Err(err).
				Str("guild_id", stored.GuildID).
				Str("user_id", userID).
				Msg("Dropping malformed answer entry")
			continue
		}

		if err := answer.Validate(); err != nil {
			log.Warn().
				Err(err).
				Str("guild_id", stored.GuildID).
				Str("user_id", userID).
				Msg("Dropping invalid answer entry")
			continue
		}

		sess.Answers[userID] = &answer
	}

	return sess, nil
}
