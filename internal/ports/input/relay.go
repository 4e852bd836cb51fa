package input

import "context"

// Author is the acting user snapshot attached to relayed messages.
type Author struct {
	ID       string
	Name     string
	Username string
}

// RelayUseCase forwards user messages to the moderators/helpers. The
// return value reports whether at least one delivery succeeded; failures
// are logged, never raised.
type RelayUseCase interface {
	SendFeedback(ctx context.Context, author Author, text string, anonymous bool) bool
	SendSOS(ctx context.Context, author Author, text string) bool
	SendThermometerAlert(ctx context.Context, author Author) bool
}
