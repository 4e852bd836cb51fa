package input

import (
	"context"

	"campusbot/internal/domain/entities"
)

// EventUseCase drives the event lifecycle: wizard commits, moderation
// transitions, attendee mutations and per-field edits. Moderation
// transitions return a second bool reporting whether the call changed
// anything (false = idempotent no-op).
type EventUseCase interface {
	Submit(ctx context.Context, draft *entities.Event) (*entities.Event, error)
	Get(ctx context.Context, id int64) (*entities.Event, error)
	GetVisible(ctx context.Context, viewerID string, id int64) (*entities.Event, error)
	ListVisible(ctx context.Context, viewerID string) ([]entities.Event, error)

	Approve(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error)
	Reject(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error)
	Resubmit(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error)

	Signup(ctx context.Context, actorID string, id int64) (*entities.Event, error)
	Signoff(ctx context.Context, actorID string, id int64) (*entities.Event, bool, error)

	SetTitle(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetLocation(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetDescription(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetDate(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetStartTime(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetEndTime(ctx context.Context, actorID string, id int64, value string) (*entities.Event, error)
	SetTags(ctx context.Context, actorID string, id int64, tags []string) (*entities.Event, error)
	SetRegistrationLink(ctx context.Context, actorID string, id int64, link string) (*entities.Event, error)

	RecordModerationNotices(ctx context.Context, id int64, refs []entities.MessageRef) (*entities.Event, error)
	Attendees(ctx context.Context, actorID string, id int64) ([]entities.Profile, error)
}
