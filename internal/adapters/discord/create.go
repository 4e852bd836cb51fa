package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/application"
	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
)

// sendDM delivers a message with arbitrary components straight through
// the session; the Messenger port only carries flat button lists.
func sendDM(s *discordgo.Session, userID, content string, components []discordgo.MessageComponent) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
	})
	return err
}

// startWizard opens the creation dialog in the user's DMs.
func (h *Handler) startWizard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	profile, err := h.profiles.Get(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}

	sess := &dialogSession{
		Kind:   dialogWizard,
		Wizard: application.NewWizard(h.loc),
		Profile: entities.Profile{
			UserID:   user.ID,
			Username: user.Username,
		},
	}
	if profile != nil && profile.Name != "" {
		sess.Profile.Name = profile.Name
	} else {
		sess.Profile.Name = user.GlobalName
	}
	h.sessions.put(user.ID, sess)

	content, components := h.wizardView(sess)
	if err := sendDM(s, user.ID, content, components); err != nil {
		h.sessions.clear(user.ID)
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: wizard dm failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("wizard_check_dm", nil))
}

// handleWizardText feeds a DM into the wizard's current step.
func (h *Handler) handleWizardText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	w := sess.Wizard
	if err := w.Input(m.Content); err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.errorText(err))
		return
	}
	content, components := h.wizardView(sess)
	_, _ = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
	})
}

func (h *Handler) HandleWizardComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	sess, ok := h.sessions.get(user.ID)
	if !ok || sess.Kind != dialogWizard {
		respondUpdate(s, i.Interaction, h.t("wizard_cancelled", nil))
		return
	}
	w := sess.Wizard

	switch {
	case customID == "wizard:cancel":
		h.sessions.clear(user.ID)
		respondUpdate(s, i.Interaction, h.t("wizard_cancelled", nil))

	case customID == "wizard:back":
		w.Back()
		content, components := h.wizardView(sess)
		respondUpdate(s, i.Interaction, content, components...)

	case strings.HasPrefix(customID, "wizard:tag:"):
		slug := strings.TrimPrefix(customID, "wizard:tag:")
		if err := w.ToggleTag(slug); err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components := h.wizardView(sess)
		respondUpdate(s, i.Interaction, content, components...)

	case customID == "wizard:tagsdone":
		if err := w.FinishTags(); err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components := h.wizardView(sess)
		respondUpdate(s, i.Interaction, content, components...)

	case customID == "wizard:submit":
		draft, err := w.Draft(sess.Profile.UserID, sess.Profile.Name, sess.Profile.Username)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		ev, err := h.events.Submit(ctx, draft)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		h.sessions.clear(user.ID)
		respondUpdate(s, i.Interaction, h.t("wizard_submitted", nil))
		h.notifyModerators(ctx, ev)
	}
}

// wizardView renders the prompt and controls for the wizard's current
// step.
func (h *Handler) wizardView(sess *dialogSession) (string, []discordgo.MessageComponent) {
	w := sess.Wizard
	controls := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: h.t("common_back", nil), Style: discordgo.SecondaryButton, CustomID: "wizard:back"},
		discordgo.Button{Label: h.t("common_cancel", nil), Style: discordgo.DangerButton, CustomID: "wizard:cancel"},
	}}

	switch w.Step {
	case application.StepTags:
		var tagRow discordgo.ActionsRow
		for _, slug := range domain.TagOrder {
			label := h.tagLabel(slug)
			for _, selected := range w.Tags {
				if selected == slug {
					label = "✅ " + label
					break
				}
			}
			tagRow.Components = append(tagRow.Components, discordgo.Button{
				Label: label, Style: discordgo.SecondaryButton, CustomID: "wizard:tag:" + slug,
			})
		}
		tagRow.Components = append(tagRow.Components, discordgo.Button{
			Label: h.t("common_done", nil), Style: discordgo.SuccessButton, CustomID: "wizard:tagsdone",
		})
		return h.t("wizard_ask_tags", nil), []discordgo.MessageComponent{tagRow, controls}

	case application.StepConfirm:
		content := h.t("wizard_confirm", nil)
		if draft, err := w.Draft(sess.Profile.UserID, sess.Profile.Name, sess.Profile.Username); err == nil {
			content += "\n\n" + h.renderEventCard(draft, false)
		}
		confirmRow := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: h.t("wizard_btn_submit", nil), Style: discordgo.SuccessButton, CustomID: "wizard:submit"},
			discordgo.Button{Label: h.t("common_back", nil), Style: discordgo.SecondaryButton, CustomID: "wizard:back"},
			discordgo.Button{Label: h.t("common_cancel", nil), Style: discordgo.DangerButton, CustomID: "wizard:cancel"},
		}}
		return content, []discordgo.MessageComponent{confirmRow}

	default:
		return h.t(w.PromptKey(), nil), []discordgo.MessageComponent{controls}
	}
}

func moderationButtonIDs(id int64) (approve, reject string) {
	return fmt.Sprintf("mod:approve:%d", id), fmt.Sprintf("mod:reject:%d", id)
}
