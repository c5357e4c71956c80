package leaderlock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/common/clock"
	"github.com/mwhitt/trivvy/internal/models"
)

const (
	// lockCollection is the base name for the status key space, suffixed the
	// same way as the session collection for environment isolation
	lockCollection = "bot_status"

	// lockDocument is the single well-known lock key per deployment
	lockDocument = "leader"

	// maxTxRetries bounds optimistic-transaction retries on write conflicts
	maxTxRetries = 3
)

// ErrLockNotFound is returned when no lock record exists
var ErrLockNotFound = errors.New("leader lock not found")

// Config holds configuration for the Redis leader lock repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// CollectionSuffix isolates environments (e.g. "-test") sharing a database
	CollectionSuffix string

	// Clock supplies the current time; injected so expiry can be simulated
	Clock clock.Clock

	// Logger for lock-protocol diagnostics
	Logger zerolog.Logger
}

// redisRepository implements the Repository interface using Redis optimistic
// transactions (WATCH/MULTI/EXEC).
type redisRepository struct {
	client *redis.Client
	key    string
	clock  clock.Clock
	log    zerolog.Logger
}

// NewRedis creates a new Redis-backed leader lock repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    fmt.Sprintf("%s%s:%s", lockCollection, cfg.CollectionSuffix, lockDocument),
		clock:  cfg.Clock,
		log:    cfg.Logger,
	}, nil
}

// AcquireLock takes or renews the leader lock inside an optimistic
// transaction: the lock key is watched, the current record read, and the
// conditional write aborts if another process modified the key in between.
// The transaction is retried a bounded number of times on conflict.
func (r *redisRepository) AcquireLock(ctx context.Context, input *AcquireLockInput) (*AcquireLockOutput, error) {
	if input == nil || input.InstanceID == "" {
		return nil, errors.New("input and instance ID cannot be empty")
	}

	if input.Expiry <= 0 {
		return nil, errors.New("expiry must be positive")
	}

	var output *AcquireLockOutput

	txn := func(tx *redis.Tx) error {
		current, err := r.readLock(ctx, tx)
		if err != nil {
			return err
		}

		now := r.clock.Now().UTC()

		// Held by us: renew by extending the expiry
		if current != nil && current.OwnedBy(input.InstanceID) {
			renewed := *current
			renewed.ExpiresAt = now.Add(input.Expiry)

			if err := r.writeLock(ctx, tx, &renewed); err != nil {
				return err
			}

			output = &AcquireLockOutput{Acquired: true, Lock: &renewed}
			return nil
		}

		// Held by someone else and still valid: lose
		if current != nil && !current.Expired(now) {
			output = &AcquireLockOutput{Acquired: false, Lock: current}
			return nil
		}

		// Absent or expired: take it
		lock := &models.LeaderLock{
			InstanceID: input.InstanceID,
			AcquiredAt: now,
			ExpiresAt:  now.Add(input.Expiry),
		}

		if err := r.writeLock(ctx, tx, lock); err != nil {
			return err
		}

		output = &AcquireLockOutput{Acquired: true, Lock: lock}
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txn, r.key)
		if err == nil {
			return output, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Another process raced us; re-read and retry
			continue
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return nil, fmt.Errorf("failed to acquire lock: %w", redis.TxFailedErr)
}

// ReleaseLock deletes the lock only when the instance owns it. Never deletes
// a lock belonging to another instance.
func (r *redisRepository) ReleaseLock(ctx context.Context, input *ReleaseLockInput) error {
	if input == nil || input.InstanceID == "" {
		return errors.New("input and instance ID cannot be empty")
	}

	txn := func(tx *redis.Tx) error {
		current, err := r.readLock(ctx, tx)
		if err != nil {
			return err
		}

		if current == nil || !current.OwnedBy(input.InstanceID) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, r.key)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txn, r.key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return fmt.Errorf("failed to release lock: %w", redis.TxFailedErr)
}

// GetLock retrieves the current lock record
func (r *redisRepository) GetLock(ctx context.Context, input *GetLockInput) (*models.LeaderLock, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to get lock: %w", err)
	}

	var lock models.LeaderLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lock: %w", err)
	}

	return &lock, nil
}

// readLock reads the lock record under the transaction's watch. A corrupt
// record is logged and treated as absent so it can be reclaimed.
func (r *redisRepository) readLock(ctx context.Context, tx *redis.Tx) (*models.LeaderLock, error) {
	data, err := tx.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var lock models.LeaderLock
	if err := json.Unmarshal(data, &lock); err != nil {
		r.log.Warn().Err(err).Msg("Discarding malformed leader lock record")
		return nil, nil
	}

	return &lock, nil
}

func (r *redisRepository) writeLock(ctx context.Context, tx *redis.Tx, lock *models.LeaderLock) error {
	data, err := json.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to marshal lock: %w", err)
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key, data, 0)
		return nil
	})
	return err
}
