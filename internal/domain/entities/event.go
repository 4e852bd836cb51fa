package entities

import (
	"time"

	"campusbot/pkg/datetime"
)

// Event moderation statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MessageRef points at a previously sent chat message, used to keep
// moderator-facing notices in sync with status changes.
type MessageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Event is the central document entity. It is stored wholesale as a JSON
// blob; starts_at/ends_at are zone-less ISO-8601 local timestamps, the
// bookkeeping timestamps are RFC 3339 UTC.
type Event struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	StartsAt           string       `json:"starts_at"`
	EndsAt             string       `json:"ends_at"`
	Location           string       `json:"location"`
	ShortDescription   string       `json:"short_description"`
	Contact            string       `json:"contact"`
	ContactName        string       `json:"contact_name"`
	ContactURL         string       `json:"contact_url"`
	RegistrationLink   string       `json:"registration_link"`
	Attendees          []string     `json:"attendees"`
	Tags               []string     `json:"tags"`
	Status             string       `json:"status"`
	CreatedBy          string       `json:"created_by"`
	CreatorName        string       `json:"creator_name"`
	CreatorUsername    string       `json:"creator_username"`
	CreatedAt          string       `json:"created_at"`
	UpdatedAt          string       `json:"updated_at"`
	ApprovedBy         string       `json:"approved_by,omitempty"`
	ApprovedAt         string       `json:"approved_at,omitempty"`
	ModeratorNote      string       `json:"moderator_note,omitempty"`
	ModerationMessages []MessageRef `json:"moderation_messages"`

	// ScheduledAt is a legacy alias that mirrors StartsAt whenever the
	// latter is set.
	ScheduledAt string `json:"scheduled_at"`
}

// StartTime parses the event's start, falling back to the legacy
// scheduled_at alias. The second return is false when no start is set or
// the stored value does not parse.
func (e *Event) StartTime(loc *time.Location) (time.Time, bool) {
	raw := e.StartsAt
	if raw == "" {
		raw = e.ScheduledAt
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := datetime.ParseISOLocal(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EndTime parses the event's optional end.
func (e *Event) EndTime(loc *time.Location) (time.Time, bool) {
	if e.EndsAt == "" {
		return time.Time{}, false
	}
	t, err := datetime.ParseISOLocal(e.EndsAt, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsRegistered reports whether userID is among the attendees.
func (e *Event) IsRegistered(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// ContactDisplay returns the derived contact string, preferring the
// name (url) pair over the raw contact field.
func (e *Event) ContactDisplay() string {
	if e.ContactName != "" && e.ContactURL != "" {
		return e.ContactName + " (" + e.ContactURL + ")"
	}
	return e.Contact
}
