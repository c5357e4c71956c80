package models

import (
	"time"
)

// LeaderLock is the single distributed mutual-exclusion record that marks one
// bot process as the authoritative writer for a deployment.
type LeaderLock struct {
	// InstanceID identifies the process that owns the lock
	InstanceID string `json:"instance_id"`

	// AcquiredAt is when the current owner first took the lock
	AcquiredAt time.Time `json:"acquired_at"`

	// ExpiresAt is when the lock lapses unless renewed by a heartbeat
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the lock has lapsed at the given instant
func (l *LeaderLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// OwnedBy reports whether the lock belongs to the given instance
func (l *LeaderLock) OwnedBy(instanceID string) bool {
	return l.InstanceID == instanceID
}
