package models

import (
	"time"
)

// PendingUpload tracks a trivia question that is waiting for the author to
// post an image in a follow-up message. Short-lived and in-memory only.
type PendingUpload struct {
	// UserID is the user who posted the question
	UserID string

	// ChannelID is the channel where the question was posted
	ChannelID string

	// MessageID is the question message waiting for an image
	MessageID string

	// GuildID is the guild the question belongs to
	GuildID string

	// Timestamp is when the claim was registered
	Timestamp time.Time
}

// Expired reports whether the claim is older than the given time-to-live
func (p *PendingUpload) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.Timestamp) > ttl
}
