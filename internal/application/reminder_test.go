package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/internal/domain/entities"
)

func newTestReminder(events *memEvents, messenger *memMessenger) *ReminderService {
	svc := NewReminderService(events, messenger, keyT{}, "ru", msk)
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 20, 5, 0, 0, msk) }
	return svc
}

func seedApproved(t *testing.T, events *memEvents, title, startsAt string, attendees ...string) *entities.Event {
	t.Helper()
	ev, err := events.Insert(context.Background(), &entities.Event{
		Title:     title,
		StartsAt:  startsAt,
		Location:  "Ауд. 305",
		Status:    entities.StatusApproved,
		Tags:      []string{"bachelor"},
		CreatedBy: creatorID,
		Attendees: attendees,
	})
	require.NoError(t, err)
	return ev
}

func TestSweepTomorrow(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	messenger := newMemMessenger()
	svc := newTestReminder(events, messenger)

	seedApproved(t, events, "Хакатон", "2025-03-10T18:00:00", otherID)

	require.NoError(t, svc.SweepTomorrow(ctx))

	sent := messenger.sentTo(otherID)
	require.Len(t, sent, 1, "exactly one consolidated reminder")
	assert.Contains(t, sent[0].Text, "reminder_header")
	assert.Contains(t, sent[0].Text, "Хакатон")
}

func TestSweepTomorrowConsolidatesAndSorts(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	messenger := newMemMessenger()
	svc := newTestReminder(events, messenger)

	seedApproved(t, events, "Вечерний квиз", "2025-03-10T19:00:00", otherID)
	seedApproved(t, events, "Утренняя пробежка", "2025-03-10T08:00:00", otherID)

	require.NoError(t, svc.SweepTomorrow(ctx))

	sent := messenger.sentTo(otherID)
	require.Len(t, sent, 1)
	morning := strings.Index(sent[0].Text, "Утренняя пробежка")
	evening := strings.Index(sent[0].Text, "Вечерний квиз")
	require.GreaterOrEqual(t, morning, 0)
	require.GreaterOrEqual(t, evening, 0)
	assert.Less(t, morning, evening, "events listed chronologically")
}

func TestSweepTomorrowSelection(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	messenger := newMemMessenger()
	svc := newTestReminder(events, messenger)

	// Wrong day, wrong status and no attendees: none should fire.
	seedApproved(t, events, "Послезавтра", "2025-03-11T18:00:00", otherID)
	seedApproved(t, events, "Без участников", "2025-03-10T18:00:00")
	_, err := events.Insert(ctx, &entities.Event{
		Title:     "На модерации",
		StartsAt:  "2025-03-10T18:00:00",
		Status:    entities.StatusPending,
		Attendees: []string{otherID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SweepTomorrow(ctx))
	assert.Empty(t, messenger.sentTo(otherID))
}

func TestSweepTomorrowSkipsFailedRecipient(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	messenger := newMemMessenger()
	messenger.failFor[otherID] = true
	svc := newTestReminder(events, messenger)

	seedApproved(t, events, "Хакатон", "2025-03-10T18:00:00", otherID, "300")

	require.NoError(t, svc.SweepTomorrow(ctx), "a recipient failure does not fail the sweep")
	assert.Empty(t, messenger.sentTo(otherID))
	assert.Len(t, messenger.sentTo("300"), 1)
}

func TestUntilNextSweep(t *testing.T) {
	events := newMemEvents()
	svc := newTestReminder(events, newMemMessenger())

	// 20:05 is past today's slot, so the next sweep is tomorrow 20:00.
	assert.Equal(t, 23*time.Hour+55*time.Minute, svc.untilNextSweep())

	svc.now = func() time.Time { return time.Date(2025, 3, 9, 8, 0, 0, 0, msk) }
	assert.Equal(t, 12*time.Hour, svc.untilNextSweep())
}
