package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/input"
	"campusbot/internal/ports/output"
	"campusbot/pkg/datetime"
)

var _ input.ProfileUseCase = (*ProfileService)(nil)

// ProfileService handles onboarding and the per-user thermometer
// schedule.
type ProfileService struct {
	users output.UserRepository
	now   func() time.Time
}

func NewProfileService(users output.UserRepository) *ProfileService {
	return &ProfileService{users: users, now: time.Now}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	return s.users.FindByUserID(ctx, userID)
}

// CompleteRegistration merges the onboarding answers over whatever is
// already stored for the user, derives the audience track and stamps the
// completion time. A repeated registration overwrites the answers but
// keeps the thermometer settings.
func (s *ProfileService) CompleteRegistration(ctx context.Context, profile *entities.Profile) (*entities.Profile, error) {
	if !profile.IsComplete() {
		return nil, domain.ErrDraftIncomplete
	}

	merged := *profile
	existing, err := s.users.FindByUserID(ctx, profile.UserID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}
	if existing != nil {
		if merged.Username == "" {
			merged.Username = existing.Username
		}
		merged.Thermometer = existing.Thermometer
		merged.RegistrationCompletedAt = existing.RegistrationCompletedAt
	}

	merged.DirectionTrack = domain.TrackForDirection(merged.Direction)
	now := s.now().UTC()
	if merged.RegistrationCompletedAt == "" {
		merged.RegistrationCompletedAt = now.Format(time.RFC3339)
	}
	if merged.Thermometer == nil {
		settings := entities.DefaultThermometerSettings()
		settings.LastSentAt = now.Format(time.RFC3339)
		merged.Thermometer = &settings
	}
	return s.users.Save(ctx, &merged)
}

func (s *ProfileService) TouchMeta(ctx context.Context, userID, username string) error {
	return s.users.TouchMeta(ctx, userID, username)
}

func (s *ProfileService) ThermometerSettings(ctx context.Context, userID string) (entities.ThermometerSettings, error) {
	profile, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return entities.ThermometerSettings{}, err
	}
	return profile.ThermometerOrDefault(), nil
}

func (s *ProfileService) SetThermometerEnabled(ctx context.Context, userID string, enabled bool) (entities.ThermometerSettings, error) {
	return s.mutateThermometer(ctx, userID, func(settings *entities.ThermometerSettings) {
		settings.Enabled = enabled
	})
}

func (s *ProfileService) SetThermometerWeekday(ctx context.Context, userID string, weekday int) (entities.ThermometerSettings, bool, error) {
	if weekday < 0 || weekday > 6 {
		return entities.ThermometerSettings{}, false, fmt.Errorf("weekday out of range: %d", weekday)
	}
	current, err := s.ThermometerSettings(ctx, userID)
	if err != nil {
		return entities.ThermometerSettings{}, false, err
	}
	if current.Weekday == weekday {
		return current, false, nil
	}
	settings, err := s.mutateThermometer(ctx, userID, func(settings *entities.ThermometerSettings) {
		settings.Weekday = weekday
	})
	return settings, err == nil, err
}

func (s *ProfileService) SetThermometerTime(ctx context.Context, userID string, value string) (entities.ThermometerSettings, bool, error) {
	if _, err := datetime.ParseClock(value); err != nil {
		return entities.ThermometerSettings{}, false, domain.ErrBadTimeFormat
	}
	current, err := s.ThermometerSettings(ctx, userID)
	if err != nil {
		return entities.ThermometerSettings{}, false, err
	}
	if current.Time == value {
		return current, false, nil
	}
	settings, err := s.mutateThermometer(ctx, userID, func(settings *entities.ThermometerSettings) {
		settings.Time = value
	})
	return settings, err == nil, err
}

func (s *ProfileService) mutateThermometer(ctx context.Context, userID string, apply func(*entities.ThermometerSettings)) (entities.ThermometerSettings, error) {
	profile, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return entities.ThermometerSettings{}, err
	}
	settings := profile.ThermometerOrDefault()
	apply(&settings)
	settings = settings.Normalize()
	profile.Thermometer = &settings
	if _, err := s.users.Save(ctx, profile); err != nil {
		return entities.ThermometerSettings{}, err
	}
	return settings, nil
}
