package leaderlock

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/mwhitt/trivvy/internal/repositories/leaderlock Repository

import (
	"context"

	"github.com/mwhitt/trivvy/internal/models"
)

// Repository defines the interface for the deployment-wide leader lock.
// Implementations must make AcquireLock an atomic read-modify-write so two
// processes can never both observe an expired lock and both win it.
type Repository interface {
	// AcquireLock attempts to take or renew the leader lock for an instance.
	// Returns Acquired=false when another instance holds an unexpired lock.
	AcquireLock(ctx context.Context, input *AcquireLockInput) (*AcquireLockOutput, error)

	// ReleaseLock deletes the lock only if the given instance owns it.
	// Releasing a lock owned by someone else, or no lock at all, is a no-op.
	ReleaseLock(ctx context.Context, input *ReleaseLockInput) error

	// GetLock retrieves the current lock record, if any
	GetLock(ctx context.Context, input *GetLockInput) (*models.LeaderLock, error)
}
