package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/models"
)

const (
	// sessionCollection is the base name for the session key space. A
	// configurable suffix isolates environments sharing one database.
	sessionCollection = "sessions"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// CollectionSuffix isolates environments (e.g. "-test") sharing a database
	CollectionSuffix string

	// Logger for corruption warnings
	Logger zerolog.Logger
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client     *redis.Client
	collection string
	log        zerolog.Logger
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client:     cfg.RedisClient,
		collection: sessionCollection + cfg.CollectionSuffix,
		log:        cfg.Logger,
	}, nil
}

func (r *redisRepository) sessionKey(guildID string) string {
	return fmt.Sprintf("%s:%s", r.collection, guildID)
}

// GetSession retrieves the session for a guild from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	data, err := r.client.Get(ctx, r.sessionKey(input.GuildID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess, err := decodeSession(data, input.GuildID, r.log)
	if err != nil {
		// Corrupt record: warn and treat as absent
		r.log.Warn().
			Err(err).
			Str("guild_id", input.GuildID).
			Msg("Discarding malformed session document")
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// SaveSession persists a session to Redis. The single-key SET gives the
// atomicity guarantee: readers see the old document or the new one, never a
// partial write.
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	data, err := encodeSession(input.Session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.sessionKey(input.Session.GuildID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// DeleteSession removes a session from Redis. Idempotent.
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	if err := r.client.Del(ctx, r.sessionKey(input.GuildID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// GetAllSessions retrieves every stored session. Corrupt documents are logged
// and skipped so one bad guild cannot block the rest.
func (r *redisRepository) GetAllSessions(ctx context.Context, input *GetAllSessionsInput) (*GetAllSessionsOutput, error) {
	sessions := make(map[string]*models.Session)
	prefix := r.collection + ":"

	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		guildID := strings.TrimPrefix(key, prefix)

		sess, err := r.GetSession(ctx, &GetSessionInput{GuildID: guildID})
		if err != nil {
			// GetSession already logged malformed documents
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		sessions[guildID] = sess
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}

	return &GetAllSessionsOutput{Sessions: sessions}, nil
}
