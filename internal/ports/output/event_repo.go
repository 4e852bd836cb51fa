package output

import (
	"context"

	"campusbot/internal/domain/entities"
)

// EventRepository is the event document store. Update is a full
// read-modify-write: the stored document is loaded, apply mutates it in
// memory and the merged result is written back wholesale (last write wins,
// no optimistic lock). Not-found is reported as domain.ErrEventNotFound.
type EventRepository interface {
	Insert(ctx context.Context, event *entities.Event) (*entities.Event, error)
	Get(ctx context.Context, id int64) (*entities.Event, error)
	Update(ctx context.Context, id int64, apply func(*entities.Event)) (*entities.Event, error)
	ListAll(ctx context.Context) ([]entities.Event, error)
}
