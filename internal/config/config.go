package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the bot configuration, parsed from the environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	// Discord credentials
	DiscordToken  string `envconfig:"DISCORD_TOKEN" required:"true"`
	ApplicationID string `envconfig:"APPLICATION_ID"`

	// Optional guild ID for development (server-specific commands)
	GuildID string `envconfig:"GUILD_ID"`

	// Redis connection
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// DataDir holds legacy per-guild session files pending migration
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// DevMode switches the collection suffix to "-test" unless an explicit
	// suffix is configured
	DevMode          bool   `envconfig:"DEV_MODE"`
	CollectionSuffix string `envconfig:"COLLECTION_SUFFIX"`

	// InstanceID identifies this process in the leader lock. Generated when
	// unset.
	InstanceID string `envconfig:"BOT_INSTANCE_ID"`

	// Leader election timing
	HeartbeatInterval time.Duration `envconfig:"HEARTBEAT_INTERVAL" default:"10s"`
	LockExpiry        time.Duration `envconfig:"LOCK_EXPIRY" default:"30s"`
	AcquireBackoff    time.Duration `envconfig:"ACQUIRE_RETRY_BACKOFF" default:"15s"`

	// TenorAPIKey enables GIF search and Tenor URL resolution when set
	TenorAPIKey string `envconfig:"TENOR_API_KEY"`
}

// New loads configuration from .env and the environment
func New() (*Config, error) {
	// Missing .env is fine; the environment may carry everything
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.CollectionSuffix == "" && cfg.DevMode {
		cfg.CollectionSuffix = "-test"
	}

	if cfg.HeartbeatInterval >= cfg.LockExpiry {
		return nil, errors.New("HEARTBEAT_INTERVAL must be shorter than LOCK_EXPIRY")
	}

	return &cfg, nil
}
