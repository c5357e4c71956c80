package discord

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mwhitt/trivvy/internal/services/gif"
	"github.com/mwhitt/trivvy/internal/services/trivia"
)

// PostQuestionCommand handles the /post-question command
type PostQuestionCommand struct {
	BaseCommand
}

// NewPostQuestionCommand creates a new post-question command handler
func NewPostQuestionCommand() *PostQuestionCommand {
	return &PostQuestionCommand{
		BaseCommand: BaseCommand{
			Name:        "post-question",
			Description: "Post a new trivia question and start a fresh round",
		},
	}
}

// Handle opens the question modal for an admin
func (c *PostQuestionCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isAdmin(i) {
		return RespondWithError(s, i, "You need administrator permission to post questions")
	}

	return RespondWithModal(s, i, ModalPostQuestion, "Post Trivia Question", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "question",
					Label:       "Question",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "What would you like to ask?",
					Required:    true,
					MaxLength:   2000,
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "image_url",
					Label:       "Image or GIF URL (optional)",
					Style:       discordgo.TextInputShort,
					Placeholder: "https://... or post an image in the next 3 minutes",
					Required:    false,
					MaxLength:   500,
				},
			},
		},
	})
}

// handleQuestionModal posts the question, reading out the previous round's
// answers to the admin and starting a new session.
func (b *Bot) handleQuestionModal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !isAdmin(i) {
		return RespondWithError(s, i, "You need administrator permission to post questions")
	}

	// Acknowledge before the store round trips
	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	ctx := context.Background()
	data := i.ModalSubmitData()
	question := strings.TrimSpace(modalInputValue(data, "question"))
	imageURL := strings.TrimSpace(modalInputValue(data, "image_url"))

	if question == "" {
		return FollowupEphemeral(s, i, "Question cannot be empty")
	}

	// Read out the round that is being closed
	var previous string
	if out, err := b.triviaService.GetSession(ctx, &trivia.GetSessionInput{
		GuildID: i.GuildID,
	}); err == nil && len(out.Session.Answers) > 0 {
		previous = FormatAnswerList(out.Session.AllAnswers())
	}

	if _, err := b.triviaService.CreateSession(ctx, &trivia.CreateSessionInput{
		GuildID: i.GuildID,
	}); err != nil {
		b.log.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to create session")
		return FollowupEphemeral(s, i, "Failed to start a new round")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Trivia Time!",
		Description: question,
		Color:       0x5865f2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Click the button below to submit your answer",
		},
	}

	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: b.resolveImageURL(ctx, imageURL)}
	}

	msg, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Submit Answer",
						Style:    discordgo.PrimaryButton,
						CustomID: ButtonSubmitAnswer,
					},
				},
			},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Str("guild_id", i.GuildID).Msg("Failed to post question")
		return FollowupEphemeral(s, i, "Failed to post the question")
	}

	// No image yet: watch for a follow-up upload from the same author
	if imageURL == "" && b.imageTracker != nil && i.Member != nil && i.Member.User != nil {
		b.imageTracker.Add(i.GuildID, i.Member.User.ID, i.ChannelID, msg.ID)
	}

	confirmation := "Question posted! A new round has started."
	if previous != "" {
		confirmation += "\n\nPrevious round results:\n" + previous
	}

	for _, chunk := range splitMessage(confirmation, maxMessageLength) {
		if err := FollowupEphemeral(s, i, chunk); err != nil {
			return err
		}
	}

	return nil
}

// resolveImageURL converts Tenor view-page links into direct GIF URLs when
// the GIF service is configured; any other URL passes through untouched.
func (b *Bot) resolveImageURL(ctx context.Context, imageURL string) string {
	if b.gifService == nil || !b.gifService.IsConfigured() {
		return imageURL
	}

	if !strings.Contains(imageURL, "tenor.com/view/") {
		return imageURL
	}

	resolved, err := b.gifService.ResolveViewURL(ctx, imageURL)
	if err != nil {
		if !errors.Is(err, gif.ErrNotConfigured) {
			b.log.Warn().Err(err).Str("url", imageURL).Msg("Failed to resolve Tenor URL")
		}
		return imageURL
	}

	return resolved
}

// handleMessageCreate attaches a follow-up image to a recently posted
// question. The author's upload message is removed once the image is copied
// onto the question embed.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.imageTracker == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	pending, ok := b.imageTracker.Get(m.GuildID, m.Author.ID)
	if !ok || pending.ChannelID != m.ChannelID {
		return
	}

	imageURL := firstImageURL(m.Message)
	if imageURL == "" {
		return
	}

	question, err := s.ChannelMessage(pending.ChannelID, pending.MessageID)
	if err != nil || len(question.Embeds) == 0 {
		b.log.Warn().Err(err).Str("message_id", pending.MessageID).Msg("Question message missing")
		b.imageTracker.Remove(m.GuildID, m.Author.ID)
		return
	}

	embed := question.Embeds[0]
	embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}

	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: pending.ChannelID,
		ID:      pending.MessageID,
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		b.log.Warn().Err(err).Str("message_id", pending.MessageID).Msg("Failed to attach image")
		return
	}

	// Hide the raw upload so only the question shows the image
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		b.log.Warn().Err(err).Str("message_id", m.ID).Msg("Failed to remove upload message")
	}

	b.imageTracker.Remove(m.GuildID, m.Author.ID)
}

// firstImageURL returns the first image-bearing attachment or embed URL in a
// message, if any
func firstImageURL(m *discordgo.Message) string {
	for _, attachment := range m.Attachments {
		if strings.HasPrefix(attachment.ContentType, "image/") {
			return attachment.URL
		}
	}

	for _, embed := range m.Embeds {
		if embed.Image != nil && embed.Image.URL != "" {
			return embed.Image.URL
		}
		if embed.Thumbnail != nil && embed.Thumbnail.URL != "" {
			return embed.Thumbnail.URL
		}
	}

	return ""
}
