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
	"campusbot/internal/ports/output"
)

// notifyModerators broadcasts a pending event to every admin's DMs and
// records the sent message references so a verdict can refresh all
// copies, not just the one the deciding admin pressed.
func (h *Handler) notifyModerators(ctx context.Context, ev *entities.Event) {
	card := h.t("moderation_new", nil) + "\n\n" + h.renderEventCard(ev, true)
	approveID, rejectID := moderationButtonIDs(ev.ID)
	buttons := []output.Button{
		{Label: h.t("moderation_btn_approve", nil), CustomID: approveID},
		{Label: h.t("moderation_btn_reject", nil), CustomID: rejectID},
	}

	var refs []entities.MessageRef
	for _, adminID := range h.rules.AdminIDs() {
		ref, err := h.messenger.SendDM(ctx, adminID, card, buttons...)
		if err != nil {
			log.Warn().Err(err).Str("admin_id", adminID).Int64("event_id", ev.ID).Msg("discord: moderator notice failed")
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		log.Error().Int64("event_id", ev.ID).Msg("discord: no moderator was notified")
		return
	}
	if _, err := h.events.RecordModerationNotices(ctx, ev.ID, refs); err != nil {
		log.Error().Err(err).Int64("event_id", ev.ID).Msg("discord: storing moderation notices failed")
	}
}

func (h *Handler) HandleModerationComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	parts := strings.Split(customID, ":")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	var (
		ev      *entities.Event
		applied bool
		verdict string
	)
	switch parts[1] {
	case "approve":
		ev, applied, err = h.events.Approve(ctx, user.ID, id)
		verdict = h.t("moderation_approved", nil)
	case "reject":
		ev, applied, err = h.events.Reject(ctx, user.ID, id)
		verdict = h.t("moderation_rejected", nil)
	default:
		return
	}

	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondUpdate(s, i.Interaction, h.t("events_not_found", nil))
			return
		}
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	if !applied {
		respondEphemeral(s, i.Interaction, h.t("moderation_already", nil))
		return
	}

	acknowledge(s, i.Interaction)
	h.refreshModerationNotices(ctx, ev, verdict)
	h.notifyCreator(ctx, ev)
}

// refreshModerationNotices rewrites every stored moderator notice with
// the verdict and drops the action buttons.
func (h *Handler) refreshModerationNotices(ctx context.Context, ev *entities.Event, verdict string) {
	card := verdict + "\n\n" + h.renderEventCard(ev, true)
	for _, ref := range ev.ModerationMessages {
		if err := h.messenger.EditMessage(ctx, ref, card); err != nil {
			log.Warn().Err(err).Str("channel_id", ref.ChannelID).Str("message_id", ref.MessageID).Msg("discord: notice refresh failed")
		}
	}
}

// notifyCreator tells the event author about the verdict.
func (h *Handler) notifyCreator(ctx context.Context, ev *entities.Event) {
	var text string
	switch ev.Status {
	case entities.StatusApproved:
		text = h.t("creator_approved", map[string]any{"Title": ev.Title})
	case entities.StatusRejected:
		text = h.t("creator_rejected", map[string]any{"Title": ev.Title, "Note": ev.ModeratorNote})
	default:
		return
	}
	if _, err := h.messenger.SendDM(ctx, ev.CreatedBy, text); err != nil {
		log.Warn().Err(err).Str("user_id", ev.CreatedBy).Int64("event_id", ev.ID).Msg("discord: creator notice failed")
	}
}
