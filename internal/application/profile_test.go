package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/input"
)

func newTestProfileService(users *memUsers) *ProfileService {
	svc := NewProfileService(users)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCompleteRegistration(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := newTestProfileService(users)

	saved, err := svc.CompleteRegistration(ctx, &entities.Profile{
		UserID:         otherID,
		Name:           "Боб",
		Direction:      "Науки о данных",
		GraduationYear: "1 курс",
		Username:       "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TrackMaster, saved.DirectionTrack)
	assert.NotEmpty(t, saved.RegistrationCompletedAt)
	require.NotNil(t, saved.Thermometer)
	assert.True(t, saved.Thermometer.Enabled)
	assert.NotEmpty(t, saved.Thermometer.LastSentAt, "watermark starts at registration, not in the past")

	t.Run("incomplete rejected", func(t *testing.T) {
		_, err := svc.CompleteRegistration(ctx, &entities.Profile{UserID: otherID, Name: "Боб"})
		assert.ErrorIs(t, err, domain.ErrDraftIncomplete)
	})

	t.Run("re-registration keeps thermometer and stamp", func(t *testing.T) {
		saved.Thermometer.Enabled = false
		_, err := users.Save(ctx, saved)
		require.NoError(t, err)

		again, err := svc.CompleteRegistration(ctx, &entities.Profile{
			UserID:         otherID,
			Name:           "Боб",
			Direction:      "Программная инженерия",
			GraduationYear: "3 курс",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TrackBachelor, again.DirectionTrack, "track follows the new direction")
		assert.False(t, again.Thermometer.Enabled, "thermometer settings survive")
		assert.Equal(t, saved.RegistrationCompletedAt, again.RegistrationCompletedAt)
		assert.Equal(t, "bob", again.Username, "username kept when the update omits it")
	})
}

func TestThermometerSettingsMutations(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := newTestProfileService(users)

	_, err := svc.CompleteRegistration(ctx, &entities.Profile{
		UserID: otherID, Name: "Боб", Direction: "Аспирантура", GraduationYear: "1 год",
	})
	require.NoError(t, err)

	settings, err := svc.SetThermometerEnabled(ctx, otherID, false)
	require.NoError(t, err)
	assert.False(t, settings.Enabled)

	settings, changed, err := svc.SetThermometerWeekday(ctx, otherID, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, settings.Weekday)

	_, changed, err = svc.SetThermometerWeekday(ctx, otherID, 2)
	require.NoError(t, err)
	assert.False(t, changed, "same value reports no change")

	_, _, err = svc.SetThermometerWeekday(ctx, otherID, 9)
	assert.Error(t, err)

	settings, changed, err = svc.SetThermometerTime(ctx, otherID, "18:00")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "18:00", settings.Time)

	_, _, err = svc.SetThermometerTime(ctx, otherID, "полдень")
	assert.ErrorIs(t, err, domain.ErrBadTimeFormat)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ThermometerSettings(ctx, "999")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestRelayService(t *testing.T) {
	ctx := context.Background()

	t.Run("helper channel preferred", func(t *testing.T) {
		messenger := newMemMessenger()
		svc := NewRelayService(messenger, keyT{}, "ru", []string{adminID}, "555")

		ok := svc.SendSOS(ctx, authorBob(), "помогите")
		assert.True(t, ok)
		assert.Len(t, messenger.sent, 1)
		assert.Equal(t, "555", messenger.sent[0].Channel)
	})

	t.Run("falls back to admin dms", func(t *testing.T) {
		messenger := newMemMessenger()
		messenger.failFor["555"] = true
		svc := NewRelayService(messenger, keyT{}, "ru", []string{adminID, "901"}, "555")

		ok := svc.SendSOS(ctx, authorBob(), "помогите")
		assert.True(t, ok)
		assert.Len(t, messenger.sentTo(adminID), 1)
		assert.Len(t, messenger.sentTo("901"), 1)
	})

	t.Run("feedback bypasses the helper channel", func(t *testing.T) {
		messenger := newMemMessenger()
		svc := NewRelayService(messenger, keyT{}, "ru", []string{adminID, "901"}, "555")

		ok := svc.SendFeedback(ctx, authorBob(), "идея", true)
		assert.True(t, ok)
		assert.Len(t, messenger.sentTo(adminID), 1)
		assert.Len(t, messenger.sentTo("901"), 1)
		for _, msg := range messenger.sent {
			assert.Empty(t, msg.Channel, "feedback must stay out of the shared channel")
		}
	})

	t.Run("total failure reported", func(t *testing.T) {
		messenger := newMemMessenger()
		messenger.failFor[adminID] = true
		svc := NewRelayService(messenger, keyT{}, "ru", []string{adminID}, "")

		ok := svc.SendThermometerAlert(ctx, authorBob())
		assert.False(t, ok)
	})
}

func authorBob() input.Author {
	return input.Author{ID: otherID, Name: "Боб", Username: "bob"}
}
