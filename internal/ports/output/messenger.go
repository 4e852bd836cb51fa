package output

import (
	"context"

	"campusbot/internal/domain/entities"
)

// Button is a transport-neutral inline action attached to a message.
type Button struct {
	Label    string
	CustomID string
}

// Messenger is the notification transport. Delivery failures come back as
// errors and are never fatal to the caller; all durable state changes
// happen before any send, so a failed delivery never rolls anything back.
type Messenger interface {
	SendDM(ctx context.Context, userID, text string, buttons ...Button) (entities.MessageRef, error)
	SendChannel(ctx context.Context, channelID, text string, buttons ...Button) (entities.MessageRef, error)
	EditMessage(ctx context.Context, ref entities.MessageRef, text string, buttons ...Button) error
}
