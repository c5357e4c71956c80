// Package election keeps exactly one bot process acting as the authoritative
// writer for a deployment. A process blocks on the leader lock at startup,
// renews it on a heartbeat strictly shorter than the lock expiry, and reports
// loss of leadership on a channel so the main loop can terminate instead of
// running as a false leader.
package election

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/repositories/leaderlock"
)

const (
	// DefaultHeartbeatInterval is how often the lock is renewed
	DefaultHeartbeatInterval = 10 * time.Second

	// DefaultLockExpiry is how long the lock stays valid without renewal.
	// Must exceed the heartbeat interval so a healthy owner renews in time.
	DefaultLockExpiry = 30 * time.Second

	// DefaultAcquireBackoff is the standby retry delay while another
	// instance holds the lock
	DefaultAcquireBackoff = 15 * time.Second
)

// ErrInvalidIntervals is returned when the heartbeat interval is not strictly
// shorter than the lock expiry
var ErrInvalidIntervals = errors.New("heartbeat interval must be shorter than lock expiry")

// Config holds configuration for the leadership manager
type Config struct {
	// LockRepo is the backing lock store
	LockRepo leaderlock.Repository

	// InstanceID identifies this process, generated once at startup
	InstanceID string

	// HeartbeatInterval between renewals (default 10s)
	HeartbeatInterval time.Duration

	// LockExpiry for each renewal (default 30s)
	LockExpiry time.Duration

	// AcquireBackoff between standby acquisition attempts (default 15s)
	AcquireBackoff time.Duration

	// Logger for election events
	Logger zerolog.Logger
}

// Manager coordinates leader election and heartbeat renewal for one process
type Manager struct {
	lockRepo   leaderlock.Repository
	instanceID string
	heartbeat  time.Duration
	expiry     time.Duration
	backoff    time.Duration
	log        zerolog.Logger

	lostOnce sync.Once
	lost     chan struct{}

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a new leadership manager
func New(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.LockRepo == nil {
		return nil, errors.New("lock repository cannot be nil")
	}

	if cfg.InstanceID == "" {
		return nil, errors.New("instance ID cannot be empty")
	}

	heartbeat := cfg.HeartbeatInterval
	if heartbeat == 0 {
		heartbeat = DefaultHeartbeatInterval
	}

	expiry := cfg.LockExpiry
	if expiry == 0 {
		expiry = DefaultLockExpiry
	}

	backoff := cfg.AcquireBackoff
	if backoff == 0 {
		backoff = DefaultAcquireBackoff
	}

	if heartbeat >= expiry {
		return nil, ErrInvalidIntervals
	}

	return &Manager{
		lockRepo:   cfg.LockRepo,
		instanceID: cfg.InstanceID,
		heartbeat:  heartbeat,
		expiry:     expiry,
		backoff:    backoff,
		log:        cfg.Logger,
		lost:       make(chan struct{}),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// acquire makes a single lock attempt. Store errors are standby conditions,
// not crashes: they report as "not acquired".
func (m *Manager) acquire(ctx context.Context) bool {
	out, err := m.lockRepo.AcquireLock(ctx, &leaderlock.AcquireLockInput{
		InstanceID: m.instanceID,
		Expiry:     m.expiry,
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("Lock acquisition failed, standing by")
		return false
	}

	return out.Acquired
}

// WaitForLeadership blocks until this instance holds the leader lock,
// retrying on a fixed backoff, or until the context is cancelled.
func (m *Manager) WaitForLeadership(ctx context.Context) error {
	for {
		if m.acquire(ctx) {
			m.log.Info().Str("instance_id", m.instanceID).Msg("Acquired leader lock")
			return nil
		}

		m.log.Info().
			Dur("backoff", m.backoff).
			Msg("Standby: leader lock held by another instance")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.backoff):
		}
	}
}

// StartHeartbeat launches the renewal loop. Seeing the lock held by another
// instance means leadership is gone and is reported on the LostLeadership
// channel. A store error only means the renewal could not be confirmed: the
// loop keeps retrying until the lock it last renewed would have expired, and
// only then declares the loss.
func (m *Manager) StartHeartbeat(ctx context.Context) {
	m.started = true

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.heartbeat)
		defer ticker.Stop()

		m.log.Info().Dur("interval", m.heartbeat).Msg("Starting heartbeat loop")

		lastRenewed := time.Now()

		for {
			select {
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				out, err := m.lockRepo.AcquireLock(ctx, &leaderlock.AcquireLockInput{
					InstanceID: m.instanceID,
					Expiry:     m.expiry,
				})

				switch {
				case err != nil:
					if time.Since(lastRenewed) < m.expiry {
						m.log.Warn().Err(err).Msg("Renewal failed, retrying before lock expiry")
						continue
					}
					m.log.Error().
						Err(err).
						Str("instance_id", m.instanceID).
						Msg("Renewal failed past lock expiry")
				case !out.Acquired:
					m.log.Error().
						Str("instance_id", m.instanceID).
						Msg("Lost leader lock during heartbeat")
				default:
					lastRenewed = time.Now()
					continue
				}

				m.lostOnce.Do(func() { close(m.lost) })
				return
			}
		}
	}()
}

// LostLeadership returns a channel closed when the lock is lost while this
// process believed it was leader. Observers must treat this as fatal.
func (m *Manager) LostLeadership() <-chan struct{} {
	return m.lost
}

// Stop halts the heartbeat loop and releases the lock if still owned
func (m *Manager) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stop) })

	if m.started {
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := m.lockRepo.ReleaseLock(ctx, &leaderlock.ReleaseLockInput{
		InstanceID: m.instanceID,
	}); err != nil {
		return err
	}

	m.log.Info().Msg("Released leader lock")
	return nil
}
