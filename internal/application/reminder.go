package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/output"
	"campusbot/pkg/datetime"
)

const (
	sweepHour   = 20
	sweepMinute = 0

	// minSweepWait keeps a sweep that finishes just before the firing
	// time from running twice for the same day.
	minSweepWait = time.Minute

	sweepRetryDelay = 5 * time.Minute
)

// ReminderService runs the daily pre-event reminder sweep: every evening
// it collects tomorrow's approved events and sends each attendee one
// consolidated direct message.
type ReminderService struct {
	events    output.EventRepository
	messenger output.Messenger
	i18n      output.T
	locale    string
	loc       *time.Location
	now       func() time.Time
}

func NewReminderService(events output.EventRepository, messenger output.Messenger, i18n output.T, locale string, loc *time.Location) *ReminderService {
	return &ReminderService{
		events:    events,
		messenger: messenger,
		i18n:      i18n,
		locale:    locale,
		loc:       loc,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled, firing the sweep once per day at
// the configured local time. A failed sweep is retried after a fixed
// delay instead of waiting for the next day.
func (s *ReminderService) Run(ctx context.Context) {
	log.Info().Str("timezone", s.loc.String()).Msg("reminder: scheduler started")
	for {
		timer := time.NewTimer(s.untilNextSweep())
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("reminder: scheduler stopped")
			return
		case <-timer.C:
		}

		for {
			err := s.SweepTomorrow(ctx)
			if err == nil {
				break
			}
			log.Error().Err(err).Msg("reminder: sweep failed, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(sweepRetryDelay):
			}
		}
	}
}

func (s *ReminderService) untilNextSweep() time.Duration {
	now := s.now().In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), sweepHour, sweepMinute, 0, 0, s.loc)
	if next.Sub(now) < minSweepWait {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// SweepTomorrow selects approved events starting on tomorrow's calendar
// date and delivers one consolidated reminder per attendee. Per-recipient
// delivery failures are logged and skipped; only the selection phase can
// fail the sweep.
func (s *ReminderService) SweepTomorrow(ctx context.Context) error {
	all, err := s.events.ListAll(ctx)
	if err != nil {
		return err
	}

	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1)
	ty, tm, td := tomorrow.Date()

	byAttendee := make(map[string][]entities.Event)
	for _, ev := range all {
		if ev.Status != entities.StatusApproved {
			continue
		}
		start, ok := ev.StartTime(s.loc)
		if !ok {
			continue
		}
		y, m, d := start.Date()
		if y != ty || m != tm || d != td {
			continue
		}
		for _, uid := range ev.Attendees {
			byAttendee[uid] = append(byAttendee[uid], ev)
		}
	}
	if len(byAttendee) == 0 {
		log.Info().Msg("reminder: nothing to send")
		return nil
	}

	sent := 0
	for uid, events := range byAttendee {
		sort.SliceStable(events, func(i, j int) bool {
			a, _ := events[i].StartTime(s.loc)
			b, _ := events[j].StartTime(s.loc)
			return a.Before(b)
		})
		if _, err := s.messenger.SendDM(ctx, uid, s.render(events)); err != nil {
			log.Warn().Err(err).Str("user_id", uid).Msg("reminder: delivery failed")
			continue
		}
		sent++
	}
	log.Info().Int("recipients", sent).Int("total", len(byAttendee)).Msg("reminder: sweep finished")
	return nil
}

func (s *ReminderService) render(events []entities.Event) string {
	var b strings.Builder
	b.WriteString(s.i18n.T(s.locale, "reminder_header", nil))
	for _, ev := range events {
		b.WriteString("\n\n• ")
		b.WriteString(ev.Title)
		if start, ok := ev.StartTime(s.loc); ok {
			end, hasEnd := ev.EndTime(s.loc)
			b.WriteString("\n  ")
			b.WriteString(datetime.FormatRange(start, end, hasEnd))
		}
		if ev.Location != "" {
			b.WriteString("\n  ")
			b.WriteString(ev.Location)
		}
	}
	return b.String()
}
