package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/input"
	"campusbot/internal/ports/output"
	"campusbot/pkg/datetime"
)

var _ input.EventUseCase = (*EventService)(nil)

// EventService implements the event lifecycle on top of the document
// repositories. All status and attendee mutations go through the
// repository's read-modify-write Update, so the last writer wins.
type EventService struct {
	events output.EventRepository
	users  output.UserRepository
	rules  *Rules
	loc    *time.Location
	now    func() time.Time

	// rejectNote is stored as the moderator note when an admin rejects
	// an event without writing their own comment.
	rejectNote string
}

func NewEventService(events output.EventRepository, users output.UserRepository, rules *Rules, loc *time.Location, rejectNote string) *EventService {
	return &EventService{
		events:     events,
		users:      users,
		rules:      rules,
		loc:        loc,
		now:        time.Now,
		rejectNote: rejectNote,
	}
}

func (s *EventService) Submit(ctx context.Context, draft *entities.Event) (*entities.Event, error) {
	if draft.Title == "" || draft.StartsAt == "" || draft.Location == "" || draft.CreatedBy == "" {
		return nil, domain.ErrDraftIncomplete
	}
	if len(domain.NormalizeTags(draft.Tags)) == 0 {
		return nil, domain.ErrNoTagsSelected
	}
	draft.Status = entities.StatusPending
	return s.events.Insert(ctx, draft)
}

func (s *EventService) Get(ctx context.Context, id int64) (*entities.Event, error) {
	return s.events.Get(ctx, id)
}

// GetVisible fetches an event through the viewer's visibility filter.
// An existing but invisible event is reported as not found.
func (s *EventService) GetVisible(ctx context.Context, viewerID string, id int64) (*entities.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.rules.IsVisible(ev, viewerID, s.profileOf(ctx, viewerID)) {
		return nil, domain.ErrEventNotFound
	}
	return ev, nil
}

func (s *EventService) ListVisible(ctx context.Context, viewerID string) ([]entities.Event, error) {
	all, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	profile := s.profileOf(ctx, viewerID)
	out := make([]entities.Event, 0, len(all))
	for _, ev := range all {
		if s.rules.IsVisible(&ev, viewerID, profile) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *EventService) Approve(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error) {
	if !s.rules.IsAdmin(actorID) {
		return nil, false, domain.ErrNotAllowed
	}
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	switch ev.Status {
	case entities.StatusApproved:
		return ev, false, nil
	case entities.StatusRejected:
		return nil, false, domain.ErrInvalidTransition
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	ev, err = s.events.Update(ctx, id, func(e *entities.Event) {
		e.Status = entities.StatusApproved
		e.ApprovedBy = actorID
		e.ApprovedAt = stamp
		e.ModeratorNote = ""
	})
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

func (s *EventService) Reject(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error) {
	if !s.rules.IsAdmin(actorID) {
		return nil, false, domain.ErrNotAllowed
	}
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	switch ev.Status {
	case entities.StatusRejected:
		return ev, false, nil
	case entities.StatusApproved:
		return nil, false, domain.ErrInvalidTransition
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	ev, err = s.events.Update(ctx, id, func(e *entities.Event) {
		e.Status = entities.StatusRejected
		e.ApprovedBy = actorID
		e.ApprovedAt = stamp
		e.ModeratorNote = s.rejectNote
	})
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

// Resubmit drives an approved or rejected event back to pending. Stale
// signups and moderator notices no longer apply, so attendees and the
// moderation message list are cleared along with the moderation fields.
func (s *EventService) Resubmit(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !s.rules.CanManage(actorID, ev) {
		return nil, false, domain.ErrNotAllowed
	}
	if ev.Status == entities.StatusPending {
		return ev, false, nil
	}
	ev, err = s.events.Update(ctx, id, func(e *entities.Event) {
		e.Status = entities.StatusPending
		e.ApprovedBy = ""
		e.ApprovedAt = ""
		e.ModeratorNote = ""
		e.Attendees = nil
		e.ModerationMessages = nil
	})
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

func (s *EventService) Signup(ctx context.Context, actorID string, id int64) (*entities.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.Status != entities.StatusApproved {
		return nil, domain.ErrSignupClosed
	}
	if ev.IsRegistered(actorID) {
		return nil, domain.ErrAlreadyRegistered
	}
	return s.events.Update(ctx, id, func(e *entities.Event) {
		if !e.IsRegistered(actorID) {
			e.Attendees = append(e.Attendees, actorID)
		}
	})
}

// Signoff removes the actor from the attendee list. Removing an absent
// attendee is a no-op reported via the second return. Unlike signup it is
// allowed in any status, so users can leave an event that was edited or
// rejected after they joined.
func (s *EventService) Signoff(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !ev.IsRegistered(actorID) {
		return ev, false, nil
	}
	ev, err = s.events.Update(ctx, id, func(e *entities.Event) {
		kept := e.Attendees[:0]
		for _, uid := range e.Attendees {
			if uid != actorID {
				kept = append(kept, uid)
			}
		}
		e.Attendees = kept
	})
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

func (s *EventService) SetTitle(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	if value == "" {
		return nil, domain.ErrEmptyInput
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		e.Title = value
		return nil
	})
}

func (s *EventService) SetLocation(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	if value == "" {
		return nil, domain.ErrEmptyInput
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		e.Location = value
		return nil
	})
}

func (s *EventService) SetDescription(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	if value == "" {
		return nil, domain.ErrEmptyInput
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		e.ShortDescription = value
		return nil
	})
}

// SetDate moves the event to another calendar day, keeping the stored
// times of day for both start and end.
func (s *EventService) SetDate(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	day, err := datetime.ParseDate(value)
	if err != nil {
		return nil, domain.ErrBadDateFormat
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		start, ok := e.StartTime(s.loc)
		if !ok {
			return domain.ErrDraftIncomplete
		}
		newStart := time.Date(day.Year(), day.Month(), day.Day(),
			start.Hour(), start.Minute(), 0, 0, s.loc)
		e.StartsAt = datetime.FormatISOLocal(newStart)
		if end, ok := e.EndTime(s.loc); ok {
			newEnd := time.Date(day.Year(), day.Month(), day.Day(),
				end.Hour(), end.Minute(), 0, 0, s.loc)
			if !newEnd.After(newStart) {
				return domain.ErrEndBeforeStart
			}
			e.EndsAt = datetime.FormatISOLocal(newEnd)
		}
		return nil
	})
}

func (s *EventService) SetStartTime(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	clock, err := datetime.ParseClock(value)
	if err != nil {
		return nil, domain.ErrBadTimeFormat
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		start, ok := e.StartTime(s.loc)
		if !ok {
			return domain.ErrDraftIncomplete
		}
		newStart := time.Date(start.Year(), start.Month(), start.Day(),
			clock.Hour(), clock.Minute(), 0, 0, s.loc)
		if end, ok := e.EndTime(s.loc); ok && !end.After(newStart) {
			return domain.ErrEndBeforeStart
		}
		e.StartsAt = datetime.FormatISOLocal(newStart)
		return nil
	})
}

func (s *EventService) SetEndTime(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error) {
	clock, err := datetime.ParseClock(value)
	if err != nil {
		return nil, domain.ErrBadTimeFormat
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		start, ok := e.StartTime(s.loc)
		if !ok {
			return domain.ErrDraftIncomplete
		}
		newEnd := time.Date(start.Year(), start.Month(), start.Day(),
			clock.Hour(), clock.Minute(), 0, 0, s.loc)
		if !newEnd.After(start) {
			return domain.ErrEndBeforeStart
		}
		e.EndsAt = datetime.FormatISOLocal(newEnd)
		return nil
	})
}

// SetTags replaces the tag set. A selection that normalizes to zero tags
// is rejected and the stored set is retained.
func (s *EventService) SetTags(ctx context.Context, actorID string, id int64, tags []string) (*entities.Event, error) {
	normalized := domain.NormalizeTags(tags)
	if len(normalized) == 0 {
		return nil, domain.ErrNoTagsSelected
	}
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		e.Tags = normalized
		return nil
	})
}

// SetRegistrationLink sets or, given an empty value, clears the link.
func (s *EventService) SetRegistrationLink(ctx context.Context, actorID string, id int64, link string) (*entities.Event, error) {
	return s.edit(ctx, actorID, id, func(e *entities.Event) error {
		e.RegistrationLink = link
		return nil
	})
}

// RecordModerationNotices stores the message references of the
// moderator-facing notices so later status changes can refresh them.
func (s *EventService) RecordModerationNotices(ctx context.Context, id int64, refs []entities.MessageRef) (*entities.Event, error) {
	return s.events.Update(ctx, id, func(e *entities.Event) {
		e.ModerationMessages = refs
	})
}

// Attendees resolves the attendee id list into profiles, sorted by name.
// Manager-only: the participant list is not public.
func (s *EventService) Attendees(ctx context.Context, actorID string, id int64) ([]entities.Profile, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.rules.CanManage(actorID, ev) {
		return nil, domain.ErrNotAllowed
	}
	out := make([]entities.Profile, 0, len(ev.Attendees))
	for _, uid := range ev.Attendees {
		profile, err := s.users.FindByUserID(ctx, uid)
		if errors.Is(err, domain.ErrProfileNotFound) {
			out = append(out, entities.Profile{UserID: uid})
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *profile)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// edit is the shared manager-gated per-field mutation path. The mutation
// is validated against a scratch copy first so a failing edit never
// reaches the store.
func (s *EventService) edit(ctx context.Context, actorID string, id int64, apply func(*entities.Event) error) (*entities.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.rules.CanManage(actorID, ev) {
		return nil, domain.ErrNotAllowed
	}
	scratch := *ev
	if err := apply(&scratch); err != nil {
		return nil, err
	}
	return s.events.Update(ctx, id, func(e *entities.Event) {
		// Ignoring the error: the same mutation just passed on the
		// freshly loaded copy.
		_ = apply(e)
	})
}

func (s *EventService) profileOf(ctx context.Context, userID string) *entities.Profile {
	profile, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			log.Warn().Err(err).Str("user_id", userID).Msg("events: profile lookup failed")
		}
		return nil
	}
	return profile
}
