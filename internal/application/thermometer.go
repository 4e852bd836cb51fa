package application

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/output"
	"campusbot/pkg/datetime"
)

// Custom ids of the buttons attached to the weekly check-in question.
const (
	ThermometerOKAction   = "thermo:ok"
	ThermometerHelpAction = "thermo:help"
)

const thermometerTick = time.Minute

// ThermometerService sends each opted-in user a weekly wellbeing
// check-in at their chosen weekday and time. Delivery is tracked with a
// per-user watermark that only advances when the message actually went
// out, so a missed slot is caught up on the next tick.
type ThermometerService struct {
	users     output.UserRepository
	messenger output.Messenger
	i18n      output.T
	locale    string
	loc       *time.Location
	now       func() time.Time
}

func NewThermometerService(users output.UserRepository, messenger output.Messenger, i18n output.T, locale string, loc *time.Location) *ThermometerService {
	return &ThermometerService{
		users:     users,
		messenger: messenger,
		i18n:      i18n,
		locale:    locale,
		loc:       loc,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled, checking due check-ins once per
// minute.
func (s *ThermometerService) Run(ctx context.Context) {
	log.Info().Msg("thermometer: scheduler started")
	ticker := time.NewTicker(thermometerTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("thermometer: scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick sends the check-in question to every fully-registered user whose
// schedule slot has passed since their last delivery.
func (s *ThermometerService) Tick(ctx context.Context) {
	profiles, err := s.users.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("thermometer: user listing failed")
		return
	}
	now := s.now()
	for i := range profiles {
		profile := &profiles[i]
		if !profile.IsComplete() {
			continue
		}
		if profile.Thermometer == nil || !profile.Thermometer.Enabled {
			continue
		}
		settings := profile.ThermometerOrDefault()
		due := s.scheduleInstant(now, settings)

		if settings.LastSentAt != "" {
			lastSent, err := time.Parse(time.RFC3339, settings.LastSentAt)
			if err == nil && !lastSent.Before(due) {
				continue
			}
		}

		buttons := []output.Button{
			{Label: s.i18n.T(s.locale, "thermometer_btn_ok", nil), CustomID: ThermometerOKAction},
			{Label: s.i18n.T(s.locale, "thermometer_btn_help", nil), CustomID: ThermometerHelpAction},
		}
		question := s.i18n.T(s.locale, "thermometer_question", nil)
		if _, err := s.messenger.SendDM(ctx, profile.UserID, question, buttons...); err != nil {
			log.Warn().Err(err).Str("user_id", profile.UserID).Msg("thermometer: delivery failed")
			continue
		}

		settings.LastSentAt = due.UTC().Format(time.RFC3339)
		profile.Thermometer = &settings
		if _, err := s.users.Save(ctx, profile); err != nil {
			log.Error().Err(err).Str("user_id", profile.UserID).Msg("thermometer: watermark update failed")
		}
	}
}

// scheduleInstant returns the most recent occurrence of the user's
// weekday/time slot at or before now. Weekdays are Monday-based.
func (s *ThermometerService) scheduleInstant(now time.Time, settings entities.ThermometerSettings) time.Time {
	local := now.In(s.loc)
	clock, err := datetime.ParseClock(settings.Time)
	if err != nil {
		clock, _ = datetime.ParseClock(entities.DefaultThermometerTime)
	}

	weekday := (int(local.Weekday()) + 6) % 7
	daysBack := weekday - settings.Weekday
	if daysBack < 0 {
		daysBack += 7
	}
	slot := time.Date(local.Year(), local.Month(), local.Day(),
		clock.Hour(), clock.Minute(), 0, 0, s.loc).AddDate(0, 0, -daysBack)
	if slot.After(local) {
		slot = slot.AddDate(0, 0, -7)
	}
	return slot
}
