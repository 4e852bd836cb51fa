package discord

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
)

func (h *Handler) HandleProfileCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)
	profile, err := h.profiles.Get(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	if profile != nil && profile.IsComplete() {
		respondEphemeral(s, i.Interaction,
			h.t("profile_card", map[string]any{
				"Name":       profile.Name,
				"Direction":  profile.Direction,
				"Graduation": profile.GraduationYear,
			}),
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: h.t("profile_edit", nil), Style: discordgo.SecondaryButton, CustomID: "reg:start"},
			}})
		return
	}
	h.startRegistration(s, i, user)
}

func (h *Handler) HandleRegistrationComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[1] {
	case "start":
		h.startRegistration(s, i, user)

	case "dir":
		sess, ok := h.sessions.get(user.ID)
		if !ok || (sess.Kind != dialogRegisterName && sess.Kind != dialogRegisterGraduation) || len(parts) < 3 {
			return
		}
		n, err := strconv.Atoi(parts[2])
		options := domain.DirectionOptions()
		if err != nil || n < 0 || n >= len(options) {
			return
		}
		sess.Profile.Direction = options[n]
		track := domain.TrackForDirection(options[n])
		gradOptions := domain.GraduationOptions(track)
		if len(gradOptions) == 0 {
			// Postgraduates type in their year instead of picking one.
			sess.Kind = dialogRegisterGraduation
			h.sessions.put(user.ID, sess)
			respondUpdate(s, i.Interaction, h.t("register_ask_graduation", nil))
			return
		}
		sess.Kind = dialogRegisterGraduation
		h.sessions.put(user.ID, sess)
		var row discordgo.ActionsRow
		for idx, opt := range gradOptions {
			row.Components = append(row.Components, discordgo.Button{
				Label: opt, Style: discordgo.SecondaryButton, CustomID: "reg:grad:" + strconv.Itoa(idx),
			})
		}
		respondUpdate(s, i.Interaction, h.t("register_ask_graduation", nil), row)

	case "grad":
		sess, ok := h.sessions.get(user.ID)
		if !ok || sess.Kind != dialogRegisterGraduation || len(parts) < 3 {
			return
		}
		n, err := strconv.Atoi(parts[2])
		options := domain.GraduationOptions(domain.TrackForDirection(sess.Profile.Direction))
		if err != nil || n < 0 || n >= len(options) {
			return
		}
		sess.Profile.GraduationYear = options[n]
		h.finishRegistration(ctx, s, i, user, sess)
	}
}

// startRegistration opens the onboarding dialog in the user's DMs.
func (h *Handler) startRegistration(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	h.sessions.put(user.ID, &dialogSession{
		Kind: dialogRegisterName,
		Profile: entities.Profile{
			UserID:   user.ID,
			Username: user.Username,
		},
	})
	text := h.t("register_welcome", nil) + "\n\n" + h.t("register_ask_name", nil)
	if err := sendDM(s, user.ID, text, nil); err != nil {
		h.sessions.clear(user.ID)
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: onboarding dm failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("wizard_check_dm", nil))
}

// handleRegisterNameText stores the name and moves on to the direction
// choice.
func (h *Handler) handleRegisterNameText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	name := strings.TrimSpace(m.Content)
	if name == "" {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.t("error_empty_input", nil))
		return
	}
	sess.Profile.Name = name
	h.sessions.put(m.Author.ID, sess)

	var components []discordgo.MessageComponent
	options := domain.DirectionOptions()
	for start := 0; start < len(options); start += 3 {
		end := start + 3
		if end > len(options) {
			end = len(options)
		}
		var row discordgo.ActionsRow
		for idx := start; idx < end; idx++ {
			row.Components = append(row.Components, discordgo.Button{
				Label: options[idx], Style: discordgo.SecondaryButton, CustomID: "reg:dir:" + strconv.Itoa(idx),
			})
		}
		components = append(components, row)
	}
	_, _ = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:    h.t("register_ask_direction", nil),
		Components: components,
	})
}

// handleRegisterGraduationText accepts the free-text study year used by
// postgraduates.
func (h *Handler) handleRegisterGraduationText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	year := strings.TrimSpace(m.Content)
	if year == "" {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.t("error_empty_input", nil))
		return
	}
	if sess.Profile.Direction == "" {
		// Direction buttons were skipped; re-prompt by replaying the name step.
		h.handleRegisterNameText(s, m, sess)
		return
	}
	sess.Profile.GraduationYear = year
	ctx := context.Background()
	saved, err := h.profiles.CompleteRegistration(ctx, &sess.Profile)
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.errorText(err))
		return
	}
	h.sessions.clear(m.Author.ID)
	_, _ = s.ChannelMessageSend(m.ChannelID, h.t("register_done", map[string]any{"Name": saved.Name}))
}

func (h *Handler) finishRegistration(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, sess *dialogSession) {
	saved, err := h.profiles.CompleteRegistration(ctx, &sess.Profile)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	h.sessions.clear(user.ID)
	respondUpdate(s, i.Interaction, h.t("register_done", map[string]any{"Name": saved.Name}))
}
