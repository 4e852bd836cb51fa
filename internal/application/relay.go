package application

import (
	"context"

	"github.com/rs/zerolog/log"

	"campusbot/internal/ports/input"
	"campusbot/internal/ports/output"
)

var _ input.RelayUseCase = (*RelayService)(nil)

// RelayService forwards feedback, SOS and thermometer signals from users
// to the moderators. Delivery is best effort: failures are logged and
// the caller only learns whether at least one copy went out.
type RelayService struct {
	messenger       output.Messenger
	i18n            output.T
	locale          string
	adminIDs        []string
	helperChannelID string
}

func NewRelayService(messenger output.Messenger, i18n output.T, locale string, adminIDs []string, helperChannelID string) *RelayService {
	return &RelayService{
		messenger:       messenger,
		i18n:            i18n,
		locale:          locale,
		adminIDs:        adminIDs,
		helperChannelID: helperChannelID,
	}
}

func (s *RelayService) SendFeedback(ctx context.Context, author input.Author, text string, anonymous bool) bool {
	var body string
	if anonymous {
		body = s.i18n.T(s.locale, "feedback_relay_anon", map[string]any{"Text": text})
	} else {
		body = s.i18n.T(s.locale, "feedback_relay", map[string]any{
			"Who":  displayName(author),
			"Text": text,
		})
	}
	// Feedback goes to each moderator personally, never to the shared
	// channel, so anonymous submissions stay between the author and the
	// team.
	return s.fanOutAdmins(ctx, body, "feedback")
}

func (s *RelayService) SendSOS(ctx context.Context, author input.Author, text string) bool {
	body := s.i18n.T(s.locale, "sos_relay", map[string]any{
		"Who":  displayName(author),
		"Text": text,
	})
	return s.broadcast(ctx, body, "sos")
}

func (s *RelayService) SendThermometerAlert(ctx context.Context, author input.Author) bool {
	body := s.i18n.T(s.locale, "thermometer_alert", map[string]any{
		"Who": displayName(author),
	})
	return s.broadcast(ctx, body, "thermometer")
}

// broadcast sends the message to the helper channel when one is
// configured and falls back to DMing every moderator otherwise.
func (s *RelayService) broadcast(ctx context.Context, body, kind string) bool {
	if s.helperChannelID != "" {
		if _, err := s.messenger.SendChannel(ctx, s.helperChannelID, body); err != nil {
			log.Warn().Err(err).Str("kind", kind).Msg("relay: helper channel delivery failed")
		} else {
			return true
		}
	}
	return s.fanOutAdmins(ctx, body, kind)
}

// fanOutAdmins DMs every moderator and reports whether at least one copy
// went out.
func (s *RelayService) fanOutAdmins(ctx context.Context, body, kind string) bool {
	delivered := false
	for _, adminID := range s.adminIDs {
		if _, err := s.messenger.SendDM(ctx, adminID, body); err != nil {
			log.Warn().Err(err).Str("kind", kind).Str("admin_id", adminID).Msg("relay: delivery failed")
			continue
		}
		delivered = true
	}
	if !delivered {
		log.Error().Str("kind", kind).Msg("relay: no copy was delivered")
	}
	return delivered
}

func displayName(author input.Author) string {
	name := author.Name
	if name == "" {
		name = author.ID
	}
	if author.Username != "" {
		name += " (@" + author.Username + ")"
	}
	return name
}
