package leaderlock

import (
	"time"

	"github.com/mwhitt/trivvy/internal/models"
)

type AcquireLockInput struct {
	// InstanceID identifies the process attempting to take the lock
	InstanceID string

	// Expiry is how long the lock remains valid without renewal
	Expiry time.Duration
}

type AcquireLockOutput struct {
	// Acquired is true when this instance now owns the lock
	Acquired bool

	// Lock is the current lock record after the attempt
	Lock *models.LeaderLock
}

type ReleaseLockInput struct {
	InstanceID string
}

type GetLockInput struct {
}
