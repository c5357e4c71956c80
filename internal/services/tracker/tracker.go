// Package tracker correlates a trivia question with a follow-up image message
// from the same author. Claims are in-memory only and expire after a fixed
// window, the same expiry-checking pattern the leader lock uses.
package tracker

import (
	"errors"
	"sync"
	"time"

	"github.com/mwhitt/trivvy/internal/common/clock"
	"github.com/mwhitt/trivvy/internal/models"
)

// DefaultTTL is how long a pending image claim stays valid
const DefaultTTL = 180 * time.Second

// Config holds configuration for the image tracker
type Config struct {
	// Clock supplies the current time; injected for testability
	Clock clock.Clock

	// TTL overrides the claim expiry window (default 180s)
	TTL time.Duration
}

type claimKey struct {
	guildID string
	userID  string
}

// Tracker tracks questions waiting for an image upload, keyed per guild and
// author. Safe for concurrent use.
type Tracker struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.Mutex
	pending map[claimKey]*models.PendingUpload
}

// New creates a new image tracker
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &Tracker{
		clock:   cfg.Clock,
		ttl:     ttl,
		pending: make(map[claimKey]*models.PendingUpload),
	}, nil
}

// Add registers a question message waiting for an image. A newer claim from
// the same author replaces the previous one.
func (t *Tracker) Add(guildID, userID, channelID, messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[claimKey{guildID, userID}] = &models.PendingUpload{
		UserID:    userID,
		ChannelID: channelID,
		MessageID: messageID,
		GuildID:   guildID,
		Timestamp: t.clock.Now(),
	}
}

// Get returns the author's pending claim if one exists and has not expired.
// Expired claims are removed on access.
func (t *Tracker) Get(guildID, userID string) (*models.PendingUpload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := claimKey{guildID, userID}
	pending, ok := t.pending[key]
	if !ok {
		return nil, false
	}

	if pending.Expired(t.clock.Now(), t.ttl) {
		delete(t.pending, key)
		return nil, false
	}

	return pending, true
}

// Remove drops the author's pending claim, if any
func (t *Tracker) Remove(guildID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, claimKey{guildID, userID})
}

// CleanupExpired removes all expired claims and returns how many were dropped
func (t *Tracker) CleanupExpired() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	removed := 0
	for key, pending := range t.pending {
		if pending.Expired(now, t.ttl) {
			delete(t.pending, key)
			removed++
		}
	}

	return removed
}

// Count returns the number of pending claims
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pending)
}
