package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/ports/input"
)

func (h *Handler) HandleHelpCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEphemeral(s, i.Interaction, h.t("help_text", nil))
}

func (h *Handler) HandleFeedbackCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	h.sessions.put(user.ID, &dialogSession{Kind: dialogFeedbackText})
	if err := sendDM(s, user.ID, h.t("feedback_prompt", nil), nil); err != nil {
		h.sessions.clear(user.ID)
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: feedback dm failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("wizard_check_dm", nil))
}

// handleFeedbackText keeps the message and asks whether to sign it.
func (h *Handler) handleFeedbackText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.t("error_empty_input", nil))
		return
	}
	sess.PendingText = text
	h.sessions.put(m.Author.ID, sess)
	_, _ = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: h.t("feedback_anonymous", nil),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: h.t("feedback_btn_anon", nil), Style: discordgo.SecondaryButton, CustomID: "fb:anon"},
				discordgo.Button{Label: h.t("feedback_btn_signed", nil), Style: discordgo.PrimaryButton, CustomID: "fb:signed"},
			}},
		},
	})
}

func (h *Handler) HandleFeedbackComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	sess, ok := h.sessions.get(user.ID)
	if !ok || sess.Kind != dialogFeedbackText || sess.PendingText == "" {
		respondUpdate(s, i.Interaction, h.t("common_error", nil))
		return
	}
	anonymous := customID == "fb:anon"
	delivered := h.relay.SendFeedback(ctx, h.authorOf(ctx, user), sess.PendingText, anonymous)
	h.sessions.clear(user.ID)
	if delivered {
		respondUpdate(s, i.Interaction, h.t("feedback_sent", nil))
	} else {
		respondUpdate(s, i.Interaction, h.t("feedback_failed", nil))
	}
}

func (h *Handler) HandleSOSCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	h.sessions.put(user.ID, &dialogSession{Kind: dialogSOSText})
	if err := sendDM(s, user.ID, h.t("sos_prompt", nil), nil); err != nil {
		h.sessions.clear(user.ID)
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: sos dm failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("wizard_check_dm", nil))
}

// handleSOSText stages the message and asks for an explicit send.
func (h *Handler) handleSOSText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.t("error_empty_input", nil))
		return
	}
	sess.PendingText = text
	h.sessions.put(m.Author.ID, sess)
	_, _ = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: h.t("sos_confirm", nil),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: h.t("sos_btn_send", nil), Style: discordgo.DangerButton, CustomID: "sos:send"},
				discordgo.Button{Label: h.t("common_cancel", nil), Style: discordgo.SecondaryButton, CustomID: "sos:cancel"},
			}},
		},
	})
}

func (h *Handler) HandleSOSComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	sess, ok := h.sessions.get(user.ID)
	if !ok || sess.Kind != dialogSOSText || sess.PendingText == "" {
		respondUpdate(s, i.Interaction, h.t("common_error", nil))
		return
	}
	if customID == "sos:cancel" {
		h.sessions.clear(user.ID)
		respondUpdate(s, i.Interaction, h.t("sos_cancelled", nil))
		return
	}
	delivered := h.relay.SendSOS(ctx, h.authorOf(ctx, user), sess.PendingText)
	h.sessions.clear(user.ID)
	if delivered {
		respondUpdate(s, i.Interaction, h.t("sos_sent", nil))
	} else {
		respondUpdate(s, i.Interaction, h.t("sos_failed", nil))
	}
}

// authorOf builds the relay author snapshot, preferring the registered
// profile name over the Discord display name.
func (h *Handler) authorOf(ctx context.Context, user *discordgo.User) input.Author {
	author := input.Author{
		ID:       user.ID,
		Name:     user.GlobalName,
		Username: user.Username,
	}
	if profile, err := h.profiles.Get(ctx, user.ID); err == nil && profile.Name != "" {
		author.Name = profile.Name
	}
	return author
}
