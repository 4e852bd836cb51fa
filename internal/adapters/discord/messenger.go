package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/output"
)

var _ output.Messenger = (*Messenger)(nil)

// Messenger implements the notification transport on top of a Discord
// session. DMs go through a per-user DM channel that discordgo caches.
type Messenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) *Messenger {
	return &Messenger{session: session}
}

func (m *Messenger) SendDM(ctx context.Context, userID, text string, buttons ...output.Button) (entities.MessageRef, error) {
	ch, err := m.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, fmt.Errorf("open dm channel for %s: %w", userID, err)
	}
	return m.send(ctx, ch.ID, text, buttons)
}

func (m *Messenger) SendChannel(ctx context.Context, channelID, text string, buttons ...output.Button) (entities.MessageRef, error) {
	return m.send(ctx, channelID, text, buttons)
}

func (m *Messenger) EditMessage(ctx context.Context, ref entities.MessageRef, text string, buttons ...output.Button) error {
	components := buttonRows(buttons)
	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Content:    &text,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit message %s/%s: %w", ref.ChannelID, ref.MessageID, err)
	}
	return nil
}

func (m *Messenger) send(ctx context.Context, channelID, text string, buttons []output.Button) (entities.MessageRef, error) {
	msg, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    text,
		Components: buttonRows(buttons),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return entities.MessageRef{ChannelID: channelID, MessageID: msg.ID}, nil
}

// buttonRows packs the buttons into action rows of at most five, the
// Discord per-row limit.
func buttonRows(buttons []output.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return []discordgo.MessageComponent{}
	}
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += 5 {
		end := start + 5
		if end > len(buttons) {
			end = len(buttons)
		}
		row := discordgo.ActionsRow{}
		for _, btn := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    btn.Label,
				Style:    discordgo.SecondaryButton,
				CustomID: btn.CustomID,
			})
		}
		rows = append(rows, row)
	}
	return rows
}
