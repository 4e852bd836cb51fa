package input

import (
	"context"

	"campusbot/internal/domain/entities"
)

// ProfileUseCase covers onboarding and the per-user thermometer settings.
type ProfileUseCase interface {
	Get(ctx context.Context, userID string) (*entities.Profile, error)
	CompleteRegistration(ctx context.Context, profile *entities.Profile) (*entities.Profile, error)
	TouchMeta(ctx context.Context, userID, username string) error

	ThermometerSettings(ctx context.Context, userID string) (entities.ThermometerSettings, error)
	SetThermometerEnabled(ctx context.Context, userID string, enabled bool) (entities.ThermometerSettings, error)
	SetThermometerWeekday(ctx context.Context, userID string, weekday int) (entities.ThermometerSettings, bool, error)
	SetThermometerTime(ctx context.Context, userID string, value string) (entities.ThermometerSettings, bool, error)
}
