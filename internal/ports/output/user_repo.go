package output

import (
	"context"

	"campusbot/internal/domain/entities"
)

// UserRepository is the user document store, keyed by the external user id.
// Absence is reported as domain.ErrProfileNotFound.
type UserRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entities.Profile, error)
	Save(ctx context.Context, profile *entities.Profile) (*entities.Profile, error)
	// TouchMeta upserts the identity snapshot (id + username) without
	// disturbing the rest of the document.
	TouchMeta(ctx context.Context, userID, username string) error
	ListAll(ctx context.Context) ([]entities.Profile, error)
}
