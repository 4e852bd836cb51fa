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

func (h *Handler) HandleEditComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	parts := strings.Split(customID, ":")
	if len(parts) < 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	switch parts[1] {
	case "menu":
		ev, err := h.events.Get(ctx, id)
		if err != nil || !h.rules.CanManage(user.ID, ev) {
			respondEphemeral(s, i.Interaction, h.t("common_not_allowed", nil))
			return
		}
		respondEphemeral(s, i.Interaction,
			h.t("edit_menu", map[string]any{"Title": ev.Title}),
			h.editMenuRows(id)...)

	case "field":
		if len(parts) != 4 {
			return
		}
		h.startFieldEdit(ctx, s, i, user, id, editField(parts[3]))

	case "tags":
		ev, err := h.events.Get(ctx, id)
		if err != nil || !h.rules.CanManage(user.ID, ev) {
			respondEphemeral(s, i.Interaction, h.t("common_not_allowed", nil))
			return
		}
		respondUpdate(s, i.Interaction, h.t("wizard_ask_tags", nil), h.editTagRows(ev))

	case "tag":
		if len(parts) != 4 {
			return
		}
		ev, err := h.events.Get(ctx, id)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		updated, err := h.events.SetTags(ctx, user.ID, id, toggleTagSet(ev.Tags, parts[3]))
		if err != nil {
			if errors.Is(err, domain.ErrNoTagsSelected) {
				respondEphemeral(s, i.Interaction, h.t("error_last_tag", nil))
				return
			}
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		respondUpdate(s, i.Interaction, h.t("wizard_ask_tags", nil), h.editTagRows(updated))

	case "tagsdone":
		respondUpdate(s, i.Interaction, h.t("edit_saved", nil))
	}
}

// startFieldEdit opens a DM dialog collecting one replacement value.
func (h *Handler) startFieldEdit(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, id int64, field editField) {
	ev, err := h.events.Get(ctx, id)
	if err != nil || !h.rules.CanManage(user.ID, ev) {
		respondEphemeral(s, i.Interaction, h.t("common_not_allowed", nil))
		return
	}

	var promptKey string
	switch field {
	case fieldTitle:
		promptKey = "wizard_ask_title"
	case fieldDate:
		promptKey = "wizard_ask_date"
	case fieldStart:
		promptKey = "wizard_ask_start"
	case fieldEnd:
		promptKey = "wizard_ask_end"
	case fieldLocation:
		promptKey = "wizard_ask_location"
	case fieldDescription:
		promptKey = "wizard_ask_description"
	case fieldLink:
		promptKey = "edit_ask_link"
	default:
		return
	}

	h.sessions.put(user.ID, &dialogSession{
		Kind:    dialogEditField,
		EventID: id,
		Field:   field,
	})
	if err := sendDM(s, user.ID, h.t(promptKey, nil), nil); err != nil {
		h.sessions.clear(user.ID)
		log.Warn().Err(err).Str("user_id", user.ID).Msg("discord: edit dm failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, h.t("wizard_check_dm", nil))
}

// handleEditText applies one DM as the new field value.
func (h *Handler) handleEditText(s *discordgo.Session, m *discordgo.MessageCreate, sess *dialogSession) {
	ctx := context.Background()
	text := strings.TrimSpace(m.Content)

	var err error
	switch sess.Field {
	case fieldTitle:
		_, err = h.events.SetTitle(ctx, m.Author.ID, sess.EventID, text)
	case fieldDate:
		_, err = h.events.SetDate(ctx, m.Author.ID, sess.EventID, text)
	case fieldStart:
		_, err = h.events.SetStartTime(ctx, m.Author.ID, sess.EventID, text)
	case fieldEnd:
		_, err = h.events.SetEndTime(ctx, m.Author.ID, sess.EventID, text)
	case fieldLocation:
		_, err = h.events.SetLocation(ctx, m.Author.ID, sess.EventID, text)
	case fieldDescription:
		_, err = h.events.SetDescription(ctx, m.Author.ID, sess.EventID, text)
	case fieldLink:
		// A dash clears the link.
		link := text
		if link == "-" {
			link = ""
		}
		_, err = h.events.SetRegistrationLink(ctx, m.Author.ID, sess.EventID, link)
	}
	if err != nil {
		_, _ = s.ChannelMessageSend(m.ChannelID, h.errorText(err))
		return
	}
	h.sessions.clear(m.Author.ID)
	_, _ = s.ChannelMessageSend(m.ChannelID, h.t("edit_saved", nil))
}

func (h *Handler) editMenuRows(id int64) []discordgo.MessageComponent {
	idStr := strconv.FormatInt(id, 10)
	btn := func(labelKey string, field string) discordgo.Button {
		return discordgo.Button{
			Label:    h.t(labelKey, nil),
			Style:    discordgo.SecondaryButton,
			CustomID: "edit:field:" + idStr + ":" + field,
		}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			btn("edit_btn_title", string(fieldTitle)),
			btn("edit_btn_date", string(fieldDate)),
			btn("edit_btn_start", string(fieldStart)),
			btn("edit_btn_end", string(fieldEnd)),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			btn("edit_btn_location", string(fieldLocation)),
			btn("edit_btn_description", string(fieldDescription)),
			btn("edit_btn_link", string(fieldLink)),
			discordgo.Button{
				Label:    h.t("edit_btn_tags", nil),
				Style:    discordgo.SecondaryButton,
				CustomID: "edit:tags:" + idStr,
			},
		}},
	}
}

func (h *Handler) editTagRows(ev *entities.Event) discordgo.ActionsRow {
	idStr := strconv.FormatInt(ev.ID, 10)
	var row discordgo.ActionsRow
	for _, slug := range domain.TagOrder {
		label := h.tagLabel(slug)
		for _, selected := range ev.Tags {
			if selected == slug {
				label = "✅ " + label
				break
			}
		}
		row.Components = append(row.Components, discordgo.Button{
			Label: label, Style: discordgo.SecondaryButton, CustomID: "edit:tag:" + idStr + ":" + slug,
		})
	}
	row.Components = append(row.Components, discordgo.Button{
		Label: h.t("common_done", nil), Style: discordgo.SuccessButton, CustomID: "edit:tagsdone:" + idStr,
	})
	return row
}

// toggleTagSet flips slug in the tag set, treating the legacy "all"
// sentinel as the full selection before the toggle.
func toggleTagSet(tags []string, slug string) []string {
	expanded := domain.NormalizeTags(tags)
	for _, tag := range tags {
		if tag == domain.TagAll {
			expanded = domain.AllTags()
			break
		}
	}
	out := make([]string, 0, len(expanded)+1)
	found := false
	for _, tag := range expanded {
		if tag == slug {
			found = true
			continue
		}
		out = append(out, tag)
	}
	if !found {
		out = append(out, slug)
	}
	return out
}
