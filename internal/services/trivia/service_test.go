package trivia

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockmocks "github.com/mwhitt/trivvy/internal/common/clock/mocks"
	"github.com/mwhitt/trivvy/internal/models"
	sessionRepo "github.com/mwhitt/trivvy/internal/repositories/session"
	sessionmocks "github.com/mwhitt/trivvy/internal/repositories/session/mocks"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockRepo  *sessionmocks.MockRepository
	mockClock *clockmocks.MockClock
	service   Service
	ctx       context.Context
	testNow   time.Time
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = sessionmocks.NewMockRepository(s.ctrl)
	s.mockClock = clockmocks.NewMockClock(s.ctrl)
	s.ctx = context.Background()
	s.testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().Return(s.testNow).AnyTimes()

	svc, err := New(&Config{
		SessionRepo: s.mockRepo,
		Clock:       s.mockClock,
		Logger:      zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{Clock: s.mockClock})
	s.Equal(ErrNilSessionRepo, err)

	_, err = New(&Config{SessionRepo: s.mockRepo})
	s.Equal(ErrNilClock, err)
}

func (s *ServiceTestSuite) TestSubmitAnswerCreatesSession() {
	// No session yet: the service starts one lazily
	s.mockRepo.EXPECT().
		GetSession(s.ctx, &sessionRepo.GetSessionInput{GuildID: "guild-1"}).
		Return(nil, sessionRepo.ErrSessionNotFound)

	var saved *models.Session
	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			saved = input.Session
			return nil
		})

	output, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Alice",
		Text:     "  Paris  ",
	})
	s.Require().NoError(err)

	s.False(output.IsUpdate)
	s.Equal("Paris", output.Answer.Text)
	s.Equal(s.testNow, output.Answer.Timestamp)

	s.Require().NotNil(saved)
	s.Equal("guild-1", saved.GuildID)
	s.Len(saved.Answers, 1)
}

func (s *ServiceTestSuite) TestSubmitAnswerUpdatesExisting() {
	existing, err := models.NewSession("guild-1", s.testNow.Add(-time.Hour))
	s.Require().NoError(err)
	existing.AddOrUpdateAnswer(&models.Answer{
		UserID:    "user-1",
		Username:  "Alice",
		Text:      "Paris",
		Timestamp: s.testNow.Add(-time.Hour),
	}, s.testNow.Add(-time.Hour))

	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(existing, nil)

	var saved *models.Session
	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			saved = input.Session
			return nil
		})

	output, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Alice",
		Text:     "Rome",
	})
	s.Require().NoError(err)

	s.True(output.IsUpdate)
	s.True(output.Answer.IsUpdated)
	s.Equal("Rome", output.Answer.Text)

	s.Require().NotNil(saved)
	s.Len(saved.Answers, 1)
	s.Equal(s.testNow, saved.LastActivity)
}

func (s *ServiceTestSuite) TestSubmitAnswerValidation() {
	// Validation failures never touch the repository
	_, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		UserID: "user-1", Username: "Alice", Text: "Paris",
	})
	s.ErrorIs(err, models.ErrEmptyGuildID)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", Username: "Alice", Text: "Paris",
	})
	s.ErrorIs(err, models.ErrEmptyUserID)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", UserID: "user-1", Text: "Paris",
	})
	s.ErrorIs(err, models.ErrEmptyUsername)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", UserID: "user-1", Username: "Alice", Text: "   ",
	})
	s.ErrorIs(err, models.ErrEmptyText)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Alice",
		Text:     strings.Repeat("x", models.MaxAnswerLength+1),
	})
	s.ErrorIs(err, models.ErrTextTooLong)
}

func (s *ServiceTestSuite) TestSubmitAnswerDegradedRead() {
	// A failing read degrades to a fresh session instead of dropping the answer
	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		Return(nil)

	output, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Alice",
		Text:     "Paris",
	})
	s.Require().NoError(err)
	s.False(output.IsUpdate)
}

func (s *ServiceTestSuite) TestSubmitAnswerSaveFailure() {
	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		Return(errors.New("connection refused"))

	// Write failures propagate so the user is not told their answer was saved
	_, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID:  "guild-1",
		UserID:   "user-1",
		Username: "Alice",
		Text:     "Paris",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to save session")
}

func (s *ServiceTestSuite) TestGetSession() {
	existing, err := models.NewSession("guild-1", s.testNow)
	s.Require().NoError(err)

	s.mockRepo.EXPECT().
		GetSession(s.ctx, &sessionRepo.GetSessionInput{GuildID: "guild-1"}).
		Return(existing, nil)

	output, err := s.service.GetSession(s.ctx, &GetSessionInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Equal(existing, output.Session)
}

func (s *ServiceTestSuite) TestGetSessionNotFound() {
	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := s.service.GetSession(s.ctx, &GetSessionInput{GuildID: "guild-1"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *ServiceTestSuite) TestResetSession() {
	s.mockRepo.EXPECT().
		DeleteSession(s.ctx, &sessionRepo.DeleteSessionInput{GuildID: "guild-1"}).
		Return(nil)

	_, err := s.service.ResetSession(s.ctx, &ResetSessionInput{GuildID: "guild-1"})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestCreateSessionOverwrites() {
	var saved *models.Session
	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			saved = input.Session
			return nil
		})

	output, err := s.service.CreateSession(s.ctx, &CreateSessionInput{GuildID: "guild-1"})
	s.Require().NoError(err)

	s.Require().NotNil(saved)
	s.Equal("guild-1", saved.GuildID)
	s.Empty(saved.Answers)
	s.Equal(output.Session, saved)
}

// ServiceIntegrationTestSuite runs the service against a real repository
// backed by miniredis.
type ServiceIntegrationTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	ctrl    *gomock.Controller
	service Service
	ctx     context.Context
	testNow time.Time
}

func (s *ServiceIntegrationTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	repo, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: s.client,
		Logger:      zerolog.Nop(),
	})
	s.Require().NoError(err)

	s.ctrl = gomock.NewController(s.T())
	s.testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockClock := clockmocks.NewMockClock(s.ctrl)
	mockClock.EXPECT().Now().Return(s.testNow).AnyTimes()

	svc, err := New(&Config{
		SessionRepo: repo,
		Clock:       mockClock,
		Logger:      zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

func (s *ServiceIntegrationTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.ctrl.Finish()
}

func TestServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceIntegrationTestSuite))
}

func (s *ServiceIntegrationTestSuite) TestAnswerRound() {
	// Two users answer, the first then revises
	_, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", UserID: "user-1", Username: "Alice", Text: "Paris",
	})
	s.Require().NoError(err)

	_, err = s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", UserID: "user-2", Username: "Bob", Text: "France",
	})
	s.Require().NoError(err)

	output, err := s.service.SubmitAnswer(s.ctx, &SubmitAnswerInput{
		GuildID: "guild-1", UserID: "user-1", Username: "Alice", Text: "Rome",
	})
	s.Require().NoError(err)
	s.True(output.IsUpdate)

	// The stored session reflects one answer per user with the revision applied
	got, err := s.service.GetSession(s.ctx, &GetSessionInput{GuildID: "guild-1"})
	s.Require().NoError(err)
	s.Require().Len(got.Session.Answers, 2)

	alice, ok := got.Session.GetAnswer("user-1")
	s.Require().True(ok)
	s.Equal("Rome", alice.Text)
	s.True(alice.IsUpdated)

	bob, ok := got.Session.GetAnswer("user-2")
	s.Require().True(ok)
	s.Equal("France", bob.Text)
	s.False(bob.IsUpdated)

	// Reset wipes the round entirely
	_, err = s.service.ResetSession(s.ctx, &ResetSessionInput{GuildID: "guild-1"})
	s.Require().NoError(err)

	_, err = s.service.GetSession(s.ctx, &GetSessionInput{GuildID: "guild-1"})
	s.ErrorIs(err, ErrSessionNotFound)
}
