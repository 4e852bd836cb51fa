package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/application"
	"campusbot/internal/ports/input"
	"campusbot/internal/ports/output"
)

// Handler routes Discord interactions and DM messages to the use cases.
type Handler struct {
	events    input.EventUseCase
	profiles  input.ProfileUseCase
	relay     input.RelayUseCase
	rules     *application.Rules
	messenger output.Messenger
	i18n      output.T
	locale    string
	loc       *time.Location
	sessions  *sessionStore
}

func NewHandler(
	events input.EventUseCase,
	profiles input.ProfileUseCase,
	relay input.RelayUseCase,
	rules *application.Rules,
	messenger output.Messenger,
	i18n output.T,
	locale string,
	loc *time.Location,
) *Handler {
	return &Handler{
		events:    events,
		profiles:  profiles,
		relay:     relay,
		rules:     rules,
		messenger: messenger,
		i18n:      i18n,
		locale:    locale,
		loc:       loc,
		sessions:  newSessionStore(),
	}
}

// t is a shorthand for rendering localized copy in the bot locale.
func (h *Handler) t(key string, data map[string]any) string {
	return h.i18n.T(h.locale, key, data)
}

// TouchUser upserts the acting user's id and username so everyone the bot
// has talked to stays addressable. Runs on every interaction.
func (h *Handler) TouchUser(i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil || user.Bot {
		return
	}
	if err := h.profiles.TouchMeta(context.Background(), user.ID, user.Username); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: touch meta failed")
	}
}

// interactionUser resolves the acting user for both guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string, components ...discordgo.MessageComponent) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: components,
		},
	})
}

// respondUpdate rewrites the message the pressed component lives on.
func respondUpdate(s *discordgo.Session, i *discordgo.Interaction, content string, components ...discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
}

// acknowledge answers a component interaction without changing anything
// visible, for handlers that follow up with regular messages.
func acknowledge(s *discordgo.Session, i *discordgo.Interaction) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
