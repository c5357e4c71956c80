package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/services/gif"
	"github.com/mwhitt/trivvy/internal/services/tracker"
	"github.com/mwhitt/trivvy/internal/services/trivia"
)

// Component and modal custom IDs
const (
	ButtonSubmitAnswer = "trivia_submit_answer"
	ModalSubmitAnswer  = "trivia_answer_modal"
	ModalPostQuestion  = "trivia_question_modal"
	ModalSearchGif     = "trivia_gif_search_modal"
)

// Bot represents the Discord bot instance
type Bot struct {
	session       *discordgo.Session
	commands      map[string]CommandHandler
	commandIDs    map[string]string // Maps command name to command ID
	triviaService trivia.Service
	gifService    gif.Service
	imageTracker  *tracker.Tracker
	log           zerolog.Logger
	config        *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Trivia service
	TriviaService trivia.Service

	// GIF service, may be unconfigured
	GifService gif.Service

	// Image tracker for follow-up image uploads
	ImageTracker *tracker.Tracker

	// Logger
	Logger zerolog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.TriviaService == nil {
		return nil, errors.New("trivia service cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session:       session,
		commands:      make(map[string]CommandHandler),
		commandIDs:    make(map[string]string),
		triviaService: cfg.TriviaService,
		gifService:    cfg.GifService,
		imageTracker:  cfg.ImageTracker,
		log:           cfg.Logger,
		config:        cfg,
	}

	// Register the interaction and message handlers
	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessageCreate)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	handlers := []CommandHandler{
		NewPostQuestionCommand(),
		NewAnswerCommand(),
		NewListAnswersCommand(b.triviaService),
		NewResetAnswersCommand(b.triviaService),
		NewSearchGifCommand(),
	}

	for _, cmd := range handlers {
		if err := b.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.GetName(), err)
		}
	}

	b.log.Info().Msg("Bot is now running")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.log.Warn().Err(err).Str("command", cmdName).Msg("Failed to delete command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register the command for that specific guild.
	// Otherwise, register it globally.
	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.log.Info().
		Str("command", cmd.GetName()).
		Str("command_id", createdCmd.ID).
		Msg("Registered command")

	return nil
}

// handleInteraction routes slash commands, button clicks and modal
// submissions. Unexpected handler failures are logged with context and
// surfaced to the user as a generic message, never internals.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var err error

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.commands[name]
		if !ok {
			return
		}
		err = cmd.Handle(s, i)

	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case ButtonSubmitAnswer:
			err = b.handleAnswerButton(s, i)
		}

	case discordgo.InteractionModalSubmit:
		switch i.ModalSubmitData().CustomID {
		case ModalSubmitAnswer:
			err = b.handleAnswerModal(s, i)
		case ModalPostQuestion:
			err = b.handleQuestionModal(s, i)
		case ModalSearchGif:
			err = b.handleGifSearchModal(s, i)
		}
	}

	if err != nil {
		b.log.Error().
			Err(err).
			Str("guild_id", i.GuildID).
			Str("channel_id", i.ChannelID).
			Msg("Interaction handler failed")

		// Best effort: the interaction may already be acknowledged
		_ = RespondWithError(s, i, "Something went wrong")
	}
}
