package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/internal/domain/entities"
)

// 2025-03-12 is a Wednesday (Monday-based weekday 2).
var thermoNow = time.Date(2025, 3, 12, 13, 0, 0, 0, msk)

func newTestThermometer(users *memUsers, messenger *memMessenger) *ThermometerService {
	svc := NewThermometerService(users, messenger, keyT{}, "ru", msk)
	svc.now = func() time.Time { return thermoNow }
	return svc
}

func TestScheduleInstant(t *testing.T) {
	svc := newTestThermometer(newMemUsers(), newMemMessenger())

	tests := []struct {
		name     string
		weekday  int
		time     string
		expected time.Time
	}{
		{"slot earlier today", 2, "12:00", time.Date(2025, 3, 12, 12, 0, 0, 0, msk)},
		{"slot later today rolls back a week", 2, "15:00", time.Date(2025, 3, 5, 15, 0, 0, 0, msk)},
		{"past weekday this week", 0, "10:00", time.Date(2025, 3, 10, 10, 0, 0, 0, msk)},
		{"future weekday rolls back", 6, "12:00", time.Date(2025, 3, 9, 12, 0, 0, 0, msk)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.scheduleInstant(thermoNow, entities.ThermometerSettings{
				Enabled: true, Weekday: tt.weekday, Time: tt.time,
			})
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestThermometerTick(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	messenger := newMemMessenger()
	svc := newTestThermometer(users, messenger)

	_, err := users.Save(ctx, &entities.Profile{
		UserID:         otherID,
		Name:           "Боб",
		Direction:      "Науки о данных",
		GraduationYear: "1 курс",
		Thermometer: &entities.ThermometerSettings{
			Enabled: true,
			Weekday: 2,
			Time:    "12:00",
			// Last delivery happened a week ago.
			LastSentAt: time.Date(2025, 3, 5, 12, 0, 0, 0, msk).UTC().Format(time.RFC3339),
		},
	})
	require.NoError(t, err)

	svc.Tick(ctx)

	sent := messenger.sentTo(otherID)
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Buttons, 2)
	assert.Equal(t, ThermometerOKAction, sent[0].Buttons[0].CustomID)
	assert.Equal(t, ThermometerHelpAction, sent[0].Buttons[1].CustomID)

	// The watermark advanced, so the next tick is silent.
	svc.Tick(ctx)
	assert.Len(t, messenger.sentTo(otherID), 1)

	stored, err := users.FindByUserID(ctx, otherID)
	require.NoError(t, err)
	due := time.Date(2025, 3, 12, 12, 0, 0, 0, msk)
	assert.Equal(t, due.UTC().Format(time.RFC3339), stored.Thermometer.LastSentAt)
}

func TestThermometerTickSkipsDisabled(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	messenger := newMemMessenger()
	svc := newTestThermometer(users, messenger)

	_, err := users.Save(ctx, &entities.Profile{
		UserID:         otherID,
		Name:           "Боб",
		Direction:      "Науки о данных",
		GraduationYear: "1 курс",
		Thermometer:    &entities.ThermometerSettings{Enabled: false, Weekday: 2, Time: "12:00"},
	})
	require.NoError(t, err)

	svc.Tick(ctx)
	assert.Empty(t, messenger.sentTo(otherID))
}

func TestThermometerTickSkipsUnregistered(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	messenger := newMemMessenger()
	svc := newTestThermometer(users, messenger)

	// Enabled settings but onboarding never finished: no check-in.
	_, err := users.Save(ctx, &entities.Profile{
		UserID:      otherID,
		Username:    "bob",
		Thermometer: &entities.ThermometerSettings{Enabled: true, Weekday: 2, Time: "12:00"},
	})
	require.NoError(t, err)

	svc.Tick(ctx)
	assert.Empty(t, messenger.sentTo(otherID))
}

func TestThermometerTickKeepsWatermarkOnFailure(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	messenger := newMemMessenger()
	messenger.failFor[otherID] = true
	svc := newTestThermometer(users, messenger)

	last := time.Date(2025, 3, 5, 12, 0, 0, 0, msk).UTC().Format(time.RFC3339)
	_, err := users.Save(ctx, &entities.Profile{
		UserID:         otherID,
		Name:           "Боб",
		Direction:      "Науки о данных",
		GraduationYear: "1 курс",
		Thermometer: &entities.ThermometerSettings{
			Enabled: true, Weekday: 2, Time: "12:00", LastSentAt: last,
		},
	})
	require.NoError(t, err)

	svc.Tick(ctx)

	stored, err := users.FindByUserID(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, last, stored.Thermometer.LastSentAt, "failed delivery must not advance the watermark")

	// Once delivery recovers the same slot is caught up.
	messenger.failFor[otherID] = false
	svc.Tick(ctx)
	assert.Len(t, messenger.sentTo(otherID), 1)
}
