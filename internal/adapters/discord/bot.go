package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/config"
)

// Bot is the Discord adapter: it owns the gateway session and feeds
// interactions and DM messages into the Handler.
type Bot struct {
	session *discordgo.Session
	config  *config.Config
	handler *Handler
}

func NewBot(session *discordgo.Session, cfg *config.Config, handler *Handler) *Bot {
	bot := &Bot{
		session: session,
		config:  cfg,
		handler: handler,
	}
	session.Identify.Intents |= discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessage)
	return bot
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	commands := []*discordgo.ApplicationCommand{
		{Name: "events", Description: "Афиша мероприятий"},
		{Name: "profile", Description: "Ваш профиль и регистрация"},
		{Name: "feedback", Description: "Оставить обратную связь"},
		{Name: "sos", Description: "Срочно связаться с кураторами"},
		{Name: "thermometer", Description: "Термометр настроения"},
		{Name: "help", Description: "Справка по боту"},
	}
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			log.Warn().Err(err).Str("command", cmd.Name).Msg("discord: command registration failed")
		}
	}

	log.Info().Str("user", b.session.State.User.Username).Msg("discord: bot is online")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		log.Warn().Err(err).Msg("discord: session close failed")
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handler.TouchUser(i)
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "events":
			b.handler.HandleEventsCommand(s, i)
		case "profile":
			b.handler.HandleProfileCommand(s, i)
		case "feedback":
			b.handler.HandleFeedbackCommand(s, i)
		case "sos":
			b.handler.HandleSOSCommand(s, i)
		case "thermometer":
			b.handler.HandleThermometerCommand(s, i)
		case "help":
			b.handler.HandleHelpCommand(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, "events:"):
			b.handler.HandleEventsComponent(s, i, customID)
		case strings.HasPrefix(customID, "wizard:"):
			b.handler.HandleWizardComponent(s, i, customID)
		case strings.HasPrefix(customID, "edit:"):
			b.handler.HandleEditComponent(s, i, customID)
		case strings.HasPrefix(customID, "mod:"):
			b.handler.HandleModerationComponent(s, i, customID)
		case strings.HasPrefix(customID, "reg:"):
			b.handler.HandleRegistrationComponent(s, i, customID)
		case strings.HasPrefix(customID, "thermo:"):
			b.handler.HandleThermometerComponent(s, i, customID)
		case strings.HasPrefix(customID, "fb:"):
			b.handler.HandleFeedbackComponent(s, i, customID)
		case strings.HasPrefix(customID, "sos:"):
			b.handler.HandleSOSComponent(s, i, customID)
		}
	}
}

// handleMessage feeds direct messages into whatever dialog the author has
// open. Guild messages and other bots are ignored.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	b.handler.HandleDirectMessage(s, m)
}
