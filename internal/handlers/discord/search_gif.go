package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// SearchGifCommand handles the /search-gif command
type SearchGifCommand struct {
	BaseCommand
}

// NewSearchGifCommand creates a new search-gif command handler
func NewSearchGifCommand() *SearchGifCommand {
	return &SearchGifCommand{
		BaseCommand: BaseCommand{
			Name:        "search-gif",
			Description: "Search for a GIF to use in a trivia question",
		},
	}
}

// Handle opens the GIF search modal
func (c *SearchGifCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return RespondWithModal(s, i, ModalSearchGif, "Search for a GIF", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "query",
					Label:       "Search Term",
					Style:       discordgo.TextInputShort,
					Placeholder: "e.g. excited, happy, star wars",
					Required:    true,
					MaxLength:   100,
				},
			},
		},
	})
}

// handleGifSearchModal runs the search and replies with copyable URLs
func (b *Bot) handleGifSearchModal(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := DeferEphemeral(s, i); err != nil {
		return err
	}

	if b.gifService == nil || !b.gifService.IsConfigured() {
		return FollowupEphemeral(s, i, "GIF search is not configured. Set TENOR_API_KEY to enable it.")
	}

	query := strings.TrimSpace(modalInputValue(i.ModalSubmitData(), "query"))
	if query == "" {
		return FollowupEphemeral(s, i, "Search term cannot be empty")
	}

	results, err := b.gifService.Search(context.Background(), query, 10)
	if err != nil {
		b.log.Warn().Err(err).Str("query", query).Msg("GIF search failed")
		return FollowupEphemeral(s, i, "GIF search failed, try again later")
	}

	if len(results) == 0 {
		return FollowupEphemeral(s, i, fmt.Sprintf("No GIFs found for %q, try a different search term", query))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "GIF results for %q, copy a URL into /post-question:\n", query)
	for idx, result := range results {
		title := result.Title
		if title == "" {
			title = "untitled"
		}
		fmt.Fprintf(&sb, "%d. **%s**\n<%s>\n", idx+1, title, result.URL)
	}

	for _, chunk := range splitMessage(sb.String(), maxMessageLength) {
		if err := FollowupEphemeral(s, i, chunk); err != nil {
			return err
		}
	}

	return nil
}
