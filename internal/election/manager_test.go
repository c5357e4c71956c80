package election

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mwhitt/trivvy/internal/models"
	"github.com/mwhitt/trivvy/internal/repositories/leaderlock"
	lockmocks "github.com/mwhitt/trivvy/internal/repositories/leaderlock/mocks"
)

type ManagerTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *lockmocks.MockRepository
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = lockmocks.NewMockRepository(s.ctrl)
}

func (s *ManagerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

// newManager builds a manager with intervals short enough for tests
func (s *ManagerTestSuite) newManager() *Manager {
	m, err := New(&Config{
		LockRepo:          s.mockRepo,
		InstanceID:        "instance-a",
		HeartbeatInterval: 5 * time.Millisecond,
		LockExpiry:        50 * time.Millisecond,
		AcquireBackoff:    time.Millisecond,
		Logger:            zerolog.Nop(),
	})
	s.Require().NoError(err)
	return m
}

func acquired() *leaderlock.AcquireLockOutput {
	return &leaderlock.AcquireLockOutput{
		Acquired: true,
		Lock:     &models.LeaderLock{InstanceID: "instance-a"},
	}
}

func denied() *leaderlock.AcquireLockOutput {
	return &leaderlock.AcquireLockOutput{
		Acquired: false,
		Lock:     &models.LeaderLock{InstanceID: "instance-b"},
	}
}

func (s *ManagerTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Require().Error(err)

	_, err = New(&Config{InstanceID: "instance-a"})
	s.Require().Error(err)

	_, err = New(&Config{LockRepo: s.mockRepo})
	s.Require().Error(err)

	// Heartbeat must be strictly shorter than the expiry
	_, err = New(&Config{
		LockRepo:          s.mockRepo,
		InstanceID:        "instance-a",
		HeartbeatInterval: 30 * time.Second,
		LockExpiry:        30 * time.Second,
	})
	s.ErrorIs(err, ErrInvalidIntervals)
}

func (s *ManagerTestSuite) TestNewDefaults() {
	m, err := New(&Config{
		LockRepo:   s.mockRepo,
		InstanceID: "instance-a",
		Logger:     zerolog.Nop(),
	})
	s.Require().NoError(err)

	s.Equal(DefaultHeartbeatInterval, m.heartbeat)
	s.Equal(DefaultLockExpiry, m.expiry)
	s.Equal(DefaultAcquireBackoff, m.backoff)
}

func (s *ManagerTestSuite) TestWaitForLeadershipImmediate() {
	s.mockRepo.EXPECT().
		AcquireLock(gomock.Any(), &leaderlock.AcquireLockInput{
			InstanceID: "instance-a",
			Expiry:     50 * time.Millisecond,
		}).
		Return(acquired(), nil)

	m := s.newManager()
	s.Require().NoError(m.WaitForLeadership(context.Background()))
}

func (s *ManagerTestSuite) TestWaitForLeadershipRetriesWhileHeld() {
	// Denied twice (once by a holder, once by a store error), then granted
	gomock.InOrder(
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(denied(), nil),
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")),
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(acquired(), nil),
	)

	m := s.newManager()
	s.Require().NoError(m.WaitForLeadership(context.Background()))
}

func (s *ManagerTestSuite) TestWaitForLeadershipHonorsContext() {
	s.mockRepo.EXPECT().
		AcquireLock(gomock.Any(), gomock.Any()).
		Return(denied(), nil).
		AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	m := s.newManager()
	err := m.WaitForLeadership(ctx)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ManagerTestSuite) TestHeartbeatRenewalFailureReportsLoss() {
	// One successful renewal, then the lock is gone
	gomock.InOrder(
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(acquired(), nil),
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(denied(), nil),
	)

	m := s.newManager()
	m.StartHeartbeat(context.Background())

	select {
	case <-m.LostLeadership():
	case <-time.After(time.Second):
		s.Fail("expected leadership loss to be reported")
	}
}

func (s *ManagerTestSuite) TestHeartbeatToleratesTransientStoreErrors() {
	// Store errors within the expiry window are retried; a later success
	// resumes normal renewal without reporting a loss
	gomock.InOrder(
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")),
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")),
		s.mockRepo.EXPECT().AcquireLock(gomock.Any(), gomock.Any()).Return(acquired(), nil).MinTimes(1),
	)
	s.mockRepo.EXPECT().ReleaseLock(gomock.Any(), gomock.Any()).Return(nil)

	m := s.newManager()
	m.StartHeartbeat(context.Background())

	// Long enough for several ticks, well inside the 50ms expiry budget
	select {
	case <-m.LostLeadership():
		s.Fail("transient store errors must not be reported as leadership loss")
	case <-time.After(30 * time.Millisecond):
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Require().NoError(m.Stop(ctx))
}

func (s *ManagerTestSuite) TestHeartbeatPersistentStoreErrorsReportLoss() {
	// Errors outlasting the lock expiry mean the lock can no longer be
	// proven held
	s.mockRepo.EXPECT().
		AcquireLock(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused")).
		AnyTimes()

	m := s.newManager()
	m.StartHeartbeat(context.Background())

	select {
	case <-m.LostLeadership():
	case <-time.After(time.Second):
		s.Fail("expected leadership loss once errors outlast the lock expiry")
	}
}

func (s *ManagerTestSuite) TestStopReleasesLock() {
	s.mockRepo.EXPECT().
		AcquireLock(gomock.Any(), gomock.Any()).
		Return(acquired(), nil).
		AnyTimes()

	s.mockRepo.EXPECT().
		ReleaseLock(gomock.Any(), &leaderlock.ReleaseLockInput{InstanceID: "instance-a"}).
		Return(nil)

	m := s.newManager()
	m.StartHeartbeat(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Require().NoError(m.Stop(ctx))

	// The heartbeat loop has exited and never reported a loss
	select {
	case <-m.LostLeadership():
		s.Fail("leadership loss should not be reported on clean stop")
	default:
	}
}

func (s *ManagerTestSuite) TestStopWithoutHeartbeat() {
	s.mockRepo.EXPECT().
		ReleaseLock(gomock.Any(), gomock.Any()).
		Return(nil)

	m := s.newManager()

	// Stop must not block waiting for a heartbeat loop that never started
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Require().NoError(m.Stop(ctx))
}
