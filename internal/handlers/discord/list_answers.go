package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/mwhitt/trivvy/internal/services/trivia"
)

// ListAnswersCommand handles the /list-answers command
type ListAnswersCommand struct {
	BaseCommand
	triviaService trivia.Service
}

// NewListAnswersCommand creates a new list-answers command handler
func NewListAnswersCommand(triviaService trivia.Service) *ListAnswersCommand {
	return &ListAnswersCommand{
		BaseCommand: BaseCommand{
			Name:        "list-answers",
			Description: "List all answers submitted for the current round (admins only)",
		},
		triviaService: triviaService,
	}
}

// Handle lists the current round's answers to the admin, ephemerally
func (c *ListAnswersCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isAdmin(i) {
		return RespondWithError(s, i, "You need administrator permission to list answers")
	}

	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	out, err := c.triviaService.GetSession(context.Background(), &trivia.GetSessionInput{
		GuildID: i.GuildID,
	})
	if err != nil {
		if errors.Is(err, trivia.ErrSessionNotFound) {
			return FollowupEphemeral(s, i, "No active trivia session in this server")
		}
		return err
	}

	content := FormatAnswerList(out.Session.AllAnswers())
	for _, chunk := range splitMessage(content, maxMessageLength) {
		if err := FollowupEphemeral(s, i, chunk); err != nil {
			return err
		}
	}

	return nil
}
