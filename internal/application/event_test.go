package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
)

const (
	adminID   = "900"
	creatorID = "100"
	otherID   = "200"
)

var msk = time.FixedZone("MSK", 3*3600)

func newTestEventService() (*EventService, *memEvents, *memUsers) {
	events := newMemEvents()
	users := newMemUsers()
	svc := NewEventService(events, users, NewRules([]string{adminID}), msk, "default note")
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, events, users
}

func pendingDraft() *entities.Event {
	return &entities.Event{
		Title:            "Хакатон",
		StartsAt:         "2025-03-10T18:00:00",
		EndsAt:           "2025-03-10T20:00:00",
		Location:         "Ауд. 305",
		ShortDescription: "Ночной хакатон",
		Tags:             []string{"bachelor"},
		CreatedBy:        creatorID,
		CreatorName:      "Аня",
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEventService()

	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPending, ev.Status)
	assert.NotZero(t, ev.ID)

	t.Run("incomplete draft", func(t *testing.T) {
		draft := pendingDraft()
		draft.Title = ""
		_, err := svc.Submit(ctx, draft)
		assert.ErrorIs(t, err, domain.ErrDraftIncomplete)
	})

	t.Run("no usable tags", func(t *testing.T) {
		draft := pendingDraft()
		draft.Tags = []string{"alumni"}
		_, err := svc.Submit(ctx, draft)
		assert.ErrorIs(t, err, domain.ErrNoTagsSelected)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	t.Run("non-admin denied", func(t *testing.T) {
		_, _, err := svc.Approve(ctx, creatorID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
		stored, _ := svc.Get(ctx, ev.ID)
		assert.Equal(t, entities.StatusPending, stored.Status)
	})

	approved, applied, err := svc.Approve(ctx, adminID, ev.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entities.StatusApproved, approved.Status)
	assert.Equal(t, adminID, approved.ApprovedBy)
	assert.NotEmpty(t, approved.ApprovedAt)

	t.Run("second approve is a no-op", func(t *testing.T) {
		again, applied, err := svc.Approve(ctx, adminID, ev.ID)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, approved.ApprovedAt, again.ApprovedAt)
		assert.Equal(t, approved.ApprovedBy, again.ApprovedBy)
	})

	t.Run("reject after approve is invalid", func(t *testing.T) {
		_, _, err := svc.Reject(ctx, adminID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	rejected, applied, err := svc.Reject(ctx, adminID, ev.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entities.StatusRejected, rejected.Status)
	assert.Equal(t, "default note", rejected.ModeratorNote)
	assert.Equal(t, adminID, rejected.ApprovedBy)

	t.Run("second reject is a no-op", func(t *testing.T) {
		_, applied, err := svc.Reject(ctx, adminID, ev.ID)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("approve after reject is invalid", func(t *testing.T) {
		_, _, err := svc.Approve(ctx, adminID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestSignupSignoff(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	t.Run("closed until approved", func(t *testing.T) {
		_, err := svc.Signup(ctx, otherID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrSignupClosed)
	})

	_, _, err = svc.Approve(ctx, adminID, ev.ID)
	require.NoError(t, err)

	joined, err := svc.Signup(ctx, otherID, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{otherID}, joined.Attendees)

	t.Run("duplicate signup rejected", func(t *testing.T) {
		_, err := svc.Signup(ctx, otherID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})

	left, removed, err := svc.Signoff(ctx, otherID, ev.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, left.Attendees)

	t.Run("absent signoff is a no-op", func(t *testing.T) {
		_, removed, err := svc.Signoff(ctx, otherID, ev.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestResubmit(t *testing.T) {
	ctx := context.Background()
	svc, events, _ := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	t.Run("pending resubmit is a no-op", func(t *testing.T) {
		_, applied, err := svc.Resubmit(ctx, creatorID, ev.ID)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	_, _, err = svc.Approve(ctx, adminID, ev.ID)
	require.NoError(t, err)
	_, err = svc.Signup(ctx, otherID, ev.ID)
	require.NoError(t, err)
	_, err = svc.RecordModerationNotices(ctx, ev.ID, []entities.MessageRef{{ChannelID: "c", MessageID: "m"}})
	require.NoError(t, err)

	t.Run("stranger denied", func(t *testing.T) {
		_, _, err := svc.Resubmit(ctx, otherID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
	})

	back, applied, err := svc.Resubmit(ctx, creatorID, ev.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entities.StatusPending, back.Status)
	assert.Empty(t, back.Attendees, "stale signups no longer apply")
	assert.Empty(t, back.ModerationMessages)
	assert.Empty(t, back.ApprovedBy)
	assert.Empty(t, back.ApprovedAt)
	assert.Empty(t, back.ModeratorNote)

	stored, err := events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPending, stored.Status)
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestEventService()
	_, err := users.Save(ctx, &entities.Profile{
		UserID:         otherID,
		Name:           "Боб",
		Direction:      "Программная инженерия",
		DirectionTrack: "bachelor",
		GraduationYear: "2 курс",
	})
	require.NoError(t, err)

	bachelorEvent, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	masterDraft := pendingDraft()
	masterDraft.Tags = []string{"master"}
	masterEvent, err := svc.Submit(ctx, masterDraft)
	require.NoError(t, err)

	t.Run("pending hidden from strangers", func(t *testing.T) {
		visible, err := svc.ListVisible(ctx, otherID)
		require.NoError(t, err)
		assert.Empty(t, visible)

		_, err = svc.GetVisible(ctx, otherID, bachelorEvent.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("creator and admin see pending", func(t *testing.T) {
		visible, err := svc.ListVisible(ctx, creatorID)
		require.NoError(t, err)
		assert.Len(t, visible, 2)

		visible, err = svc.ListVisible(ctx, adminID)
		require.NoError(t, err)
		assert.Len(t, visible, 2)
	})

	_, _, err = svc.Approve(ctx, adminID, bachelorEvent.ID)
	require.NoError(t, err)
	_, _, err = svc.Approve(ctx, adminID, masterEvent.ID)
	require.NoError(t, err)

	t.Run("track filter", func(t *testing.T) {
		visible, err := svc.ListVisible(ctx, otherID)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, bachelorEvent.ID, visible[0].ID)
	})

	t.Run("all sentinel admits every track", func(t *testing.T) {
		_, err := svc.events.Update(ctx, masterEvent.ID, func(e *entities.Event) {
			e.Tags = []string{domain.TagAll}
		})
		require.NoError(t, err)
		visible, err := svc.ListVisible(ctx, otherID)
		require.NoError(t, err)
		assert.Len(t, visible, 2)
	})

	t.Run("no resolvable track sees only unrestricted events", func(t *testing.T) {
		visible, err := svc.ListVisible(ctx, "999")
		require.NoError(t, err)
		require.Len(t, visible, 1, "only the all-tagged event")
		assert.Equal(t, masterEvent.ID, visible[0].ID)
	})
}

func TestEdits(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.SetTitle(ctx, otherID, ev.ID, "Новое имя")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
	})

	t.Run("date shift keeps times", func(t *testing.T) {
		updated, err := svc.SetDate(ctx, creatorID, ev.ID, "11.03.2025")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-11T18:00:00", updated.StartsAt)
		assert.Equal(t, "2025-03-11T20:00:00", updated.EndsAt)
		assert.Equal(t, updated.StartsAt, updated.ScheduledAt)
	})

	t.Run("bad date format", func(t *testing.T) {
		_, err := svc.SetDate(ctx, creatorID, ev.ID, "2025-03-11")
		assert.ErrorIs(t, err, domain.ErrBadDateFormat)
	})

	t.Run("start must stay before end", func(t *testing.T) {
		_, err := svc.SetStartTime(ctx, creatorID, ev.ID, "21:00")
		assert.ErrorIs(t, err, domain.ErrEndBeforeStart)

		stored, _ := svc.Get(ctx, ev.ID)
		assert.Equal(t, "2025-03-11T18:00:00", stored.StartsAt, "failed edit must not persist")
	})

	t.Run("end must stay after start", func(t *testing.T) {
		_, err := svc.SetEndTime(ctx, creatorID, ev.ID, "17:00")
		assert.ErrorIs(t, err, domain.ErrEndBeforeStart)
	})

	t.Run("zero tag selection retained", func(t *testing.T) {
		_, err := svc.SetTags(ctx, creatorID, ev.ID, []string{"alumni"})
		assert.ErrorIs(t, err, domain.ErrNoTagsSelected)
		stored, _ := svc.Get(ctx, ev.ID)
		assert.Equal(t, []string{"bachelor"}, stored.Tags)
	})

	t.Run("tag replace", func(t *testing.T) {
		updated, err := svc.SetTags(ctx, creatorID, ev.ID, []string{"master", "bachelor"})
		require.NoError(t, err)
		assert.Equal(t, []string{"bachelor", "master"}, updated.Tags)
	})

	t.Run("registration link set and cleared", func(t *testing.T) {
		updated, err := svc.SetRegistrationLink(ctx, creatorID, ev.ID, "https://forms.example/42")
		require.NoError(t, err)
		assert.Equal(t, "https://forms.example/42", updated.RegistrationLink)

		updated, err = svc.SetRegistrationLink(ctx, creatorID, ev.ID, "")
		require.NoError(t, err)
		assert.Empty(t, updated.RegistrationLink)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := svc.SetTitle(ctx, creatorID, ev.ID, "")
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})
}

func TestAttendees(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestEventService()
	ev, err := svc.Submit(ctx, pendingDraft())
	require.NoError(t, err)
	_, _, err = svc.Approve(ctx, adminID, ev.ID)
	require.NoError(t, err)

	_, err = users.Save(ctx, &entities.Profile{UserID: otherID, Name: "Боб"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, otherID, ev.ID)
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "300", ev.ID)
	require.NoError(t, err)

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.Attendees(ctx, otherID, ev.ID)
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
	})

	attendees, err := svc.Attendees(ctx, creatorID, ev.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	assert.Equal(t, "300", attendees[0].UserID, "profileless attendee keeps the bare id")
	assert.Equal(t, "Боб", attendees[1].Name)
}
