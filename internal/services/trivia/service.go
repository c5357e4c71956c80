package trivia

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/common/clock"
	"github.com/mwhitt/trivvy/internal/models"
	sessionRepo "github.com/mwhitt/trivvy/internal/repositories/session"
	"github.com/mwhitt/trivvy/internal/validation"
)

// Config holds configuration for the trivia service
type Config struct {
	// SessionRepo is the backing session store
	SessionRepo sessionRepo.Repository

	// Clock supplies timestamps; injected for testability
	Clock clock.Clock

	// Logger for degraded-read warnings
	Logger zerolog.Logger
}

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
	log         zerolog.Logger

	// guildMu serializes submissions per guild. The store write is a whole-
	// document save, so concurrent submissions for the same guild would
	// otherwise race read-modify-write and lose updates.
	mu      sync.Mutex
	guildMu map[string]*sync.Mutex
}

// New creates a new trivia service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		guildMu:     make(map[string]*sync.Mutex),
	}, nil
}

func (s *service) guildLock(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	mu, ok := s.guildMu[guildID]
	if !ok {
		mu = &sync.Mutex{}
		s.guildMu[guildID] = mu
	}

	return mu
}

// SubmitAnswer records or replaces a user's answer in the guild's current
// session. Validation failures surface as domain errors for the caller to
// show the user; they are never logged as faults.
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.GuildID == "" {
		return nil, models.ErrEmptyGuildID
	}

	if input.UserID == "" {
		return nil, models.ErrEmptyUserID
	}

	if input.Username == "" {
		return nil, models.ErrEmptyUsername
	}

	text, err := validation.ValidateAnswerText(input.Text)
	if err != nil {
		return nil, err
	}

	mu := s.guildLock(input.GuildID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		// Degrade reads to "no session" and start fresh; only the write
		// path propagates persistence failures
		if !errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.log.Warn().
				Err(err).
				Str("guild_id", input.GuildID).
				Msg("Failed to load session, starting fresh")
		}

		sess, err = models.NewSession(input.GuildID, s.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	now := s.clock.Now().UTC()
	answer := &models.Answer{
		UserID:    input.UserID,
		Username:  input.Username,
		Text:      text,
		Timestamp: now,
	}

	isUpdate := sess.AddOrUpdateAnswer(answer, now)

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: sess,
	}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &SubmitAnswerOutput{
		Answer:   answer,
		IsUpdate: isUpdate,
	}, nil
}

// GetSession retrieves the guild's current session
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, models.ErrEmptyGuildID
	}

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		GuildID: input.GuildID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &GetSessionOutput{Session: sess}, nil
}

// ResetSession deletes the guild's session entirely. Reset means "start
// over": nothing of the previous round, including CreatedAt, survives.
func (s *service) ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, models.ErrEmptyGuildID
	}

	mu := s.guildLock(input.GuildID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{
		GuildID: input.GuildID,
	}); err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	return &ResetSessionOutput{}, nil
}

// CreateSession persists a fresh empty session, overwriting any existing one
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, models.ErrEmptyGuildID
	}

	mu := s.guildLock(input.GuildID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := models.NewSession(input.GuildID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: sess,
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &CreateSessionOutput{Session: sess}, nil
}

// GetAllSessions returns every stored session
func (s *service) GetAllSessions(ctx context.Context, input *GetAllSessionsInput) (*GetAllSessionsOutput, error) {
	out, err := s.sessionRepo.GetAllSessions(ctx, &sessionRepo.GetAllSessionsInput{})
	if err != nil {
		return nil, err
	}

	return &GetAllSessionsOutput{Sessions: out.Sessions}, nil
}
