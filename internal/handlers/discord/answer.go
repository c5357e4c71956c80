package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/mwhitt/trivvy/internal/models"
	"github.com/mwhitt/trivvy/internal/services/trivia"
)

// AnswerCommand handles the /answer command, the keyboard alternative to the
// "Submit Answer" button
type AnswerCommand struct {
	BaseCommand
}

// NewAnswerCommand creates a new answer command handler
func NewAnswerCommand() *AnswerCommand {
	return &AnswerCommand{
		BaseCommand: BaseCommand{
			Name:        "answer",
			Description: "Submit or update your answer to the current trivia question",
		},
	}
}

// Handle opens the answer modal
func (c *AnswerCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return openAnswerModal(s, i)
}

// handleAnswerButton opens the answer modal when a member clicks the
// persistent "Submit Answer" button under a question
func (b *Bot) handleAnswerButton(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return openAnswerModal(s, i)
}

func openAnswerModal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return RespondWithModal(s, i, ModalSubmitAnswer, "Submit Your Trivia Answer", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "answer",
					Label:       "Your Answer",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Type your answer here",
					Required:    true,
					MaxLength:   models.MaxAnswerLength,
				},
			},
		},
	})
}

// handleAnswerModal records the submitted answer. Validation failures come
// back to the member as ephemeral rejections.
func (b *Bot) handleAnswerModal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return RespondWithError(s, i, "Answers can only be submitted inside a server")
	}

	// Acknowledge before the store round trip
	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	text := modalInputValue(i.ModalSubmitData(), "answer")

	out, err := b.triviaService.SubmitAnswer(context.Background(), &trivia.SubmitAnswerInput{
		GuildID:  i.GuildID,
		UserID:   i.Member.User.ID,
		Username: displayName(i),
		Text:     text,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyText):
			return FollowupEphemeral(s, i, "Your answer cannot be empty")
		case errors.Is(err, models.ErrTextTooLong):
			return FollowupEphemeral(s, i, fmt.Sprintf("Your answer is too long (max %d characters)", models.MaxAnswerLength))
		default:
			b.log.Error().
				Err(err).
				Str("guild_id", i.GuildID).
				Str("user_id", i.Member.User.ID).
				Msg("Failed to submit answer")
			return FollowupEphemeral(s, i, "Something went wrong saving your answer, please try again")
		}
	}

	if out.IsUpdate {
		return FollowupEphemeral(s, i, "Your answer has been updated!")
	}

	return FollowupEphemeral(s, i, "Your answer has been recorded!")
}
