package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"campusbot/internal/domain/entities"
	"campusbot/pkg/datetime"
)

const listingPageSize = 5

// Listing kinds encoded into custom ids.
const (
	listUpcoming = "up"
	listPast     = "past"
)

func (h *Handler) HandleEventsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)
	if !h.ensureRegistered(ctx, s, i, user) {
		return
	}
	content, components, err := h.listingView(ctx, user.ID, listUpcoming, 0)
	if err != nil {
		log.Error().Err(err).Msg("discord: listing failed")
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	respondEphemeral(s, i.Interaction, content, components...)
}

func (h *Handler) HandleEventsComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()
	user := interactionUser(i)
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[1] {
	case "list":
		if len(parts) != 4 {
			return
		}
		page, _ := strconv.Atoi(parts[3])
		content, components, err := h.listingView(ctx, user.ID, parts[2], page)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		respondUpdate(s, i.Interaction, content, components...)

	case "details":
		id, kind, page, ok := parseDetailsID(parts)
		if !ok {
			return
		}
		content, components, err := h.detailsView(ctx, user.ID, id, kind, page)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		respondUpdate(s, i.Interaction, content, components...)

	case "signup":
		id, kind, page, ok := parseDetailsID(parts)
		if !ok {
			return
		}
		ev, err := h.events.Signup(ctx, user.ID, id)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components, err := h.detailsView(ctx, user.ID, id, kind, page)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.t("signup_ok", map[string]any{"Title": ev.Title}))
			return
		}
		respondUpdate(s, i.Interaction, content, components...)

	case "signoff":
		id, kind, page, ok := parseDetailsID(parts)
		if !ok {
			return
		}
		ev, applied, err := h.events.Signoff(ctx, user.ID, id)
		if err != nil {
			respondEphemeral(s, i.Interaction, h.errorText(err))
			return
		}
		content, components, err := h.detailsView(ctx, user.ID, id, kind, page)
		if err != nil {
			if !applied {
				respondEphemeral(s, i.Interaction, h.t("signoff_absent", nil))
				return
			}
			respondEphemeral(s, i.Interaction, h.t("signoff_ok", map[string]any{"Title": ev.Title}))
			return
		}
		respondUpdate(s, i.Interaction, content, components...)

	case "attendees":
		if len(parts) < 3 {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		page := 0
		if len(parts) > 3 {
			page, _ = strconv.Atoi(parts[3])
		}
		h.showAttendees(ctx, s, i, user.ID, id, page, len(parts) > 3)

	case "create":
		h.startWizard(ctx, s, i, user)

	case "resubmit":
		if len(parts) < 3 {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		respondEphemeral(s, i.Interaction, h.t("resubmit_confirm", nil),
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: h.t("common_yes", nil), Style: discordgo.DangerButton, CustomID: fmt.Sprintf("events:resubmitok:%d", id)},
				discordgo.Button{Label: h.t("common_cancel", nil), Style: discordgo.SecondaryButton, CustomID: "events:resubmitcancel"},
			}})

	case "resubmitok":
		if len(parts) < 3 {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		ev, applied, err := h.events.Resubmit(ctx, user.ID, id)
		if err != nil {
			respondUpdate(s, i.Interaction, h.errorText(err))
			return
		}
		if !applied {
			respondUpdate(s, i.Interaction, h.t("resubmit_pending", nil))
			return
		}
		respondUpdate(s, i.Interaction, h.t("resubmit_done", nil))
		h.notifyModerators(ctx, ev)

	case "resubmitcancel":
		respondUpdate(s, i.Interaction, h.t("common_cancel", nil))
	}
}

func parseDetailsID(parts []string) (id int64, kind string, page int, ok bool) {
	if len(parts) != 5 {
		return 0, "", 0, false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, "", 0, false
	}
	page, _ = strconv.Atoi(parts[4])
	return id, parts[3], page, true
}

// ensureRegistered gates event browsing behind a completed profile and
// points the user at /profile otherwise.
func (h *Handler) ensureRegistered(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) bool {
	if h.rules.IsAdmin(user.ID) {
		return true
	}
	profile, err := h.profiles.Get(ctx, user.ID)
	if err != nil || !profile.IsComplete() {
		respondEphemeral(s, i.Interaction, h.t("register_required", nil))
		return false
	}
	return true
}

func (h *Handler) listingView(ctx context.Context, viewerID, kind string, page int) (string, []discordgo.MessageComponent, error) {
	visible, err := h.events.ListVisible(ctx, viewerID)
	if err != nil {
		return "", nil, err
	}
	upcoming, past := splitUpcoming(visible, nowIn(h.loc), h.loc)

	events := upcoming
	header := h.t("events_title_upcoming", nil)
	empty := h.t("events_empty_upcoming", nil)
	if kind == listPast {
		events = past
		header = h.t("events_title_past", nil)
		empty = h.t("events_empty_past", nil)
	}

	pages := (len(events) + listingPageSize - 1) / listingPageSize
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * listingPageSize
	end := start + listingPageSize
	if end > len(events) {
		end = len(events)
	}
	pageEvents := events[start:end]

	var b strings.Builder
	b.WriteString(header)
	if len(pageEvents) == 0 {
		b.WriteString("\n\n")
		b.WriteString(empty)
	}
	var detailRow discordgo.ActionsRow
	for n, ev := range pageEvents {
		b.WriteString("\n\n")
		b.WriteString(keycap(n + 1))
		b.WriteString(" **")
		b.WriteString(ev.Title)
		b.WriteString("**")
		if startAt, ok := ev.StartTime(h.loc); ok {
			b.WriteString("\n")
			b.WriteString(datetime.FormatDate(startAt))
			b.WriteString(" · ")
			b.WriteString(datetime.FormatClock(startAt))
		}
		detailRow.Components = append(detailRow.Components, discordgo.Button{
			Label:    keycap(n + 1),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("events:details:%d:%s:%d", ev.ID, kind, page),
		})
	}
	if pages > 1 {
		b.WriteString("\n\n")
		b.WriteString(h.t("events_page", map[string]any{"Page": page + 1, "Pages": pages}))
	}

	var components []discordgo.MessageComponent
	if len(detailRow.Components) > 0 {
		components = append(components, detailRow)
	}

	var navRow discordgo.ActionsRow
	if page > 0 {
		navRow.Components = append(navRow.Components, discordgo.Button{
			Label: h.t("events_btn_prev", nil), Style: discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("events:list:%s:%d", kind, page-1),
		})
	}
	otherKind, otherLabel := listPast, h.t("events_btn_past", nil)
	if kind == listPast {
		otherKind, otherLabel = listUpcoming, h.t("events_btn_upcoming", nil)
	}
	navRow.Components = append(navRow.Components, discordgo.Button{
		Label: otherLabel, Style: discordgo.PrimaryButton,
		CustomID: fmt.Sprintf("events:list:%s:0", otherKind),
	})
	navRow.Components = append(navRow.Components, discordgo.Button{
		Label: h.t("events_btn_refresh", nil), Style: discordgo.SecondaryButton,
		CustomID: fmt.Sprintf("events:list:%s:%d", kind, page),
	})
	if page < pages-1 {
		navRow.Components = append(navRow.Components, discordgo.Button{
			Label: h.t("events_btn_next", nil), Style: discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("events:list:%s:%d", kind, page+1),
		})
	}
	components = append(components, navRow)

	components = append(components, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: h.t("events_btn_create", nil), Style: discordgo.SuccessButton, CustomID: "events:create"},
	}})
	return b.String(), components, nil
}

func (h *Handler) detailsView(ctx context.Context, viewerID string, id int64, kind string, page int) (string, []discordgo.MessageComponent, error) {
	ev, err := h.events.GetVisible(ctx, viewerID, id)
	if err != nil {
		return "", nil, err
	}
	manager := h.rules.CanManage(viewerID, ev)
	content := h.renderEventCard(ev, manager)

	var actionRow discordgo.ActionsRow
	if ev.IsRegistered(viewerID) {
		actionRow.Components = append(actionRow.Components, discordgo.Button{
			Label: h.t("details_btn_signoff", nil), Style: discordgo.DangerButton,
			CustomID: fmt.Sprintf("events:signoff:%d:%s:%d", id, kind, page),
		})
	} else if ev.Status == entities.StatusApproved {
		actionRow.Components = append(actionRow.Components, discordgo.Button{
			Label: h.t("details_btn_signup", nil), Style: discordgo.SuccessButton,
			CustomID: fmt.Sprintf("events:signup:%d:%s:%d", id, kind, page),
		})
	}
	actionRow.Components = append(actionRow.Components, discordgo.Button{
		Label: h.t("common_back", nil), Style: discordgo.SecondaryButton,
		CustomID: fmt.Sprintf("events:list:%s:%d", kind, page),
	})

	components := []discordgo.MessageComponent{actionRow}
	if manager {
		manageRow := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: h.t("details_btn_edit", nil), Style: discordgo.SecondaryButton, CustomID: fmt.Sprintf("edit:menu:%d", id)},
			discordgo.Button{Label: h.t("details_btn_attendees", nil), Style: discordgo.SecondaryButton, CustomID: fmt.Sprintf("events:attendees:%d", id)},
		}}
		if ev.Status != entities.StatusPending {
			manageRow.Components = append(manageRow.Components, discordgo.Button{
				Label: h.t("details_btn_resubmit", nil), Style: discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("events:resubmit:%d", id),
			})
		}
		components = append(components, manageRow)
	}
	return content, components, nil
}

const attendeesPageSize = 10

func (h *Handler) showAttendees(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, viewerID string, id int64, page int, update bool) {
	attendees, err := h.events.Attendees(ctx, viewerID, id)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}
	ev, err := h.events.Get(ctx, id)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorText(err))
		return
	}

	pages := (len(attendees) + attendeesPageSize - 1) / attendeesPageSize
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * attendeesPageSize
	end := start + attendeesPageSize
	if end > len(attendees) {
		end = len(attendees)
	}

	var b strings.Builder
	b.WriteString(h.t("attendees_header", map[string]any{"Title": ev.Title}))
	if len(attendees) == 0 {
		b.WriteString("\n")
		b.WriteString(h.t("attendees_empty", nil))
	}
	for n, profile := range attendees[start:end] {
		name := profile.Name
		if name == "" {
			name = profile.UserID
		}
		if profile.Username != "" {
			name += " (@" + profile.Username + ")"
		}
		fmt.Fprintf(&b, "\n%d. %s", start+n+1, name)
	}
	if pages > 1 {
		b.WriteString("\n\n")
		b.WriteString(h.t("events_page", map[string]any{"Page": page + 1, "Pages": pages}))
	}

	var components []discordgo.MessageComponent
	var navRow discordgo.ActionsRow
	if page > 0 {
		navRow.Components = append(navRow.Components, discordgo.Button{
			Label: h.t("events_btn_prev", nil), Style: discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("events:attendees:%d:%d", id, page-1),
		})
	}
	if page < pages-1 {
		navRow.Components = append(navRow.Components, discordgo.Button{
			Label: h.t("events_btn_next", nil), Style: discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("events:attendees:%d:%d", id, page+1),
		})
	}
	if len(navRow.Components) > 0 {
		components = append(components, navRow)
	}

	if update {
		respondUpdate(s, i.Interaction, b.String(), components...)
		return
	}
	respondEphemeral(s, i.Interaction, b.String(), components...)
}
