package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/mwhitt/trivvy/internal/services/trivia"
)

// ResetAnswersCommand handles the /reset-answers command
type ResetAnswersCommand struct {
	BaseCommand
	triviaService trivia.Service
}

// NewResetAnswersCommand creates a new reset-answers command handler
func NewResetAnswersCommand(triviaService trivia.Service) *ResetAnswersCommand {
	return &ResetAnswersCommand{
		BaseCommand: BaseCommand{
			Name:        "reset-answers",
			Description: "Delete the current round's session and all answers (admins only)",
		},
		triviaService: triviaService,
	}
}

// Handle deletes the guild's session. Resetting an absent session succeeds.
func (c *ResetAnswersCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isAdmin(i) {
		return RespondWithError(s, i, "You need administrator permission to reset answers")
	}

	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	if _, err := c.triviaService.ResetSession(context.Background(), &trivia.ResetSessionInput{
		GuildID: i.GuildID,
	}); err != nil {
		return err
	}

	return FollowupEphemeral(s, i, "All answers have been cleared. Post a new question to start the next round!")
}
