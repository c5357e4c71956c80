package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/common/clock"
	"github.com/mwhitt/trivvy/internal/common/uuid"
	"github.com/mwhitt/trivvy/internal/config"
	"github.com/mwhitt/trivvy/internal/election"
	"github.com/mwhitt/trivvy/internal/handlers/discord"
	"github.com/mwhitt/trivvy/internal/logger"
	"github.com/mwhitt/trivvy/internal/repositories/leaderlock"
	sessionRepo "github.com/mwhitt/trivvy/internal/repositories/session"
	"github.com/mwhitt/trivvy/internal/services/gif"
	"github.com/mwhitt/trivvy/internal/services/tracker"
	"github.com/mwhitt/trivvy/internal/services/trivia"
)

func main() {
	log := logger.New("trivvy")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	instanceID := cfg.InstanceID
	if instanceID == "" {
		instanceID = uuid.New().NewUUID()
	}
	log = log.With().Str("instance_id", instanceID).Logger()

	log.Info().
		Str("collection_suffix", cfg.CollectionSuffix).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting trivia bot")

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
		os.Exit(1)
	}

	systemClock := &clock.DefaultClock{}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient:      redisClient,
		CollectionSuffix: cfg.CollectionSuffix,
		Logger:           log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session repository")
		os.Exit(1)
	}

	lockRepo, err := leaderlock.NewRedis(&leaderlock.Config{
		RedisClient:      redisClient,
		CollectionSuffix: cfg.CollectionSuffix,
		Clock:            systemClock,
		Logger:           log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create leader lock repository")
		os.Exit(1)
	}

	// Migrate any legacy session files into Redis before serving
	if legacy, err := sessionRepo.NewFile(&sessionRepo.FileConfig{
		DataDir: cfg.DataDir,
		Logger:  log,
	}); err != nil {
		log.Warn().Err(err).Msg("Skipping legacy data migration")
	} else if out, err := legacy.MigrateTo(context.Background(), sessions); err != nil {
		log.Warn().Err(err).Msg("Legacy data migration failed")
	} else if out.Migrated > 0 || out.Failed > 0 {
		log.Info().
			Int("migrated", out.Migrated).
			Int("failed", out.Failed).
			Msg("Migrated legacy session files")
	}

	// Initialize services
	triviaSvc, err := trivia.New(&trivia.Config{
		SessionRepo: sessions,
		Clock:       systemClock,
		Logger:      log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create trivia service")
		os.Exit(1)
	}

	gifSvc, err := gif.NewTenor(&gif.TenorConfig{
		APIKey: cfg.TenorAPIKey,
		Logger: log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create gif service")
		os.Exit(1)
	}

	imageTracker, err := tracker.New(&tracker.Config{Clock: systemClock})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create image tracker")
		os.Exit(1)
	}

	// Leader election: block until this instance is the authoritative writer
	manager, err := election.New(&election.Config{
		LockRepo:          lockRepo,
		InstanceID:        instanceID,
		HeartbeatInterval: cfg.HeartbeatInterval,
		LockExpiry:        cfg.LockExpiry,
		AcquireBackoff:    cfg.AcquireBackoff,
		Logger:            log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create election manager")
		os.Exit(1)
	}

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	if err := manager.WaitForLeadership(runCtx); err != nil {
		log.Error().Err(err).Msg("Leader election aborted")
		os.Exit(1)
	}

	manager.StartHeartbeat(runCtx)

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:         cfg.DiscordToken,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		TriviaService: triviaSvc,
		GifService:    gifSvc,
		ImageTracker:  imageTracker,
		Logger:        log,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Discord bot")
		releaseAndExit(manager, log, 1)
	}

	if err := bot.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start Discord bot")
		releaseAndExit(manager, log, 1)
	}

	// Wait for a shutdown signal or loss of leadership
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	exitCode := 0
	select {
	case sig := <-sc:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-manager.LostLeadership():
		// Never keep operating as a false leader
		log.Error().Msg("Leadership lost, terminating")
		exitCode = 1
	}

	if err := bot.Stop(); err != nil {
		log.Warn().Err(err).Msg("Error stopping bot")
	}

	releaseAndExit(manager, log, exitCode)
}

// releaseAndExit stops the heartbeat, releases the leader lock and exits
func releaseAndExit(manager *election.Manager, log zerolog.Logger, code int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := manager.Stop(ctx); err != nil {
		log.Warn().Err(err).Msg("Error releasing leader lock")
	}

	os.Exit(code)
}
