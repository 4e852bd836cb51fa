package discord

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/pkg/datetime"
)

func nowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

var keycaps = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

func keycap(n int) string {
	if n >= 1 && n <= len(keycaps) {
		return keycaps[n-1]
	}
	return fmt.Sprintf("%d.", n)
}

func (h *Handler) statusLabel(status string) string {
	switch status {
	case entities.StatusApproved:
		return h.t("details_status_approved", nil)
	case entities.StatusRejected:
		return h.t("details_status_rejected", nil)
	default:
		return h.t("details_status_pending", nil)
	}
}

func (h *Handler) tagLabel(slug string) string {
	switch slug {
	case domain.TrackBachelor:
		return h.t("tag_bachelor", nil)
	case domain.TrackMaster:
		return h.t("tag_master", nil)
	case domain.TrackPostgraduate:
		return h.t("tag_postgraduate", nil)
	case domain.TagAll:
		return h.t("tag_all", nil)
	}
	return slug
}

// renderEventCard builds the details view. Managers additionally see the
// moderation status and, on a rejected event, the moderator note.
func (h *Handler) renderEventCard(ev *entities.Event, manager bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", ev.Title)
	if manager {
		b.WriteString(h.statusLabel(ev.Status))
		b.WriteString("\n")
	}
	if start, ok := ev.StartTime(h.loc); ok {
		end, hasEnd := ev.EndTime(h.loc)
		fmt.Fprintf(&b, "\n%s: %s", h.t("details_when", nil), datetime.FormatRange(start, end, hasEnd))
	}
	if ev.Location != "" {
		fmt.Fprintf(&b, "\n%s: %s", h.t("details_where", nil), ev.Location)
	}
	if ev.ShortDescription != "" {
		fmt.Fprintf(&b, "\n\n%s: %s", h.t("details_about", nil), ev.ShortDescription)
	}
	if contact := ev.ContactDisplay(); contact != "" {
		fmt.Fprintf(&b, "\n%s: %s", h.t("details_contact", nil), contact)
	}
	if ev.RegistrationLink != "" {
		fmt.Fprintf(&b, "\n%s: %s", h.t("details_link", nil), ev.RegistrationLink)
	}
	if len(ev.Tags) > 0 {
		labels := make([]string, 0, len(ev.Tags))
		for _, tag := range ev.Tags {
			labels = append(labels, h.tagLabel(tag))
		}
		fmt.Fprintf(&b, "\n🏷 %s", strings.Join(labels, ", "))
	}
	fmt.Fprintf(&b, "\n%s", h.t("details_attendees", map[string]any{"Count": len(ev.Attendees)}))
	if manager && ev.Status == entities.StatusRejected && ev.ModeratorNote != "" {
		fmt.Fprintf(&b, "\n\n%s", h.t("details_moderator_note", map[string]any{"Note": ev.ModeratorNote}))
	}
	return b.String()
}

// splitUpcoming partitions visible events by calendar day: anything
// starting today or later is upcoming (soonest first), the rest is past
// (most recent first). Events without a parseable start date count as
// upcoming so they stay reachable.
func splitUpcoming(events []entities.Event, now time.Time, loc *time.Location) (upcoming, past []entities.Event) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for _, ev := range events {
		start, ok := ev.StartTime(loc)
		if ok && start.Before(today) {
			past = append(past, ev)
			continue
		}
		upcoming = append(upcoming, ev)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		a, aok := upcoming[i].StartTime(loc)
		b, bok := upcoming[j].StartTime(loc)
		if aok != bok {
			return bok // dateless entries sink to the end
		}
		return a.Before(b)
	})
	sort.SliceStable(past, func(i, j int) bool {
		a, _ := past[i].StartTime(loc)
		b, _ := past[j].StartTime(loc)
		return a.After(b)
	})
	return upcoming, past
}

// errorText maps domain errors to user-facing copy; anything unexpected
// collapses into the generic error message.
func (h *Handler) errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return h.t("error_empty_input", nil)
	case errors.Is(err, domain.ErrBadDateFormat):
		return h.t("error_bad_date", nil)
	case errors.Is(err, domain.ErrBadTimeFormat):
		return h.t("error_bad_time", nil)
	case errors.Is(err, domain.ErrEndBeforeStart):
		return h.t("error_end_before_start", nil)
	case errors.Is(err, domain.ErrNoTagsSelected):
		return h.t("error_no_tags", nil)
	case errors.Is(err, domain.ErrLastTag):
		return h.t("error_last_tag", nil)
	case errors.Is(err, domain.ErrEventNotFound):
		return h.t("events_not_found", nil)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return h.t("signup_already", nil)
	case errors.Is(err, domain.ErrSignupClosed):
		return h.t("signup_closed", nil)
	case errors.Is(err, domain.ErrNotAllowed):
		return h.t("common_not_allowed", nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		return h.t("moderation_invalid", nil)
	}
	return h.t("common_error", nil)
}
