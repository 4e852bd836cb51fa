package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/output"
)

// memEvents is an in-memory EventRepository with the same
// read-modify-write contract as the Postgres document store.
type memEvents struct {
	mu    sync.Mutex
	seq   int64
	items map[int64]entities.Event
}

func newMemEvents() *memEvents {
	return &memEvents{items: make(map[int64]entities.Event)}
}

func (r *memEvents) Insert(_ context.Context, event *entities.Event) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	doc := *event
	doc.ID = r.seq
	if doc.Status == "" {
		doc.Status = entities.StatusPending
	}
	if doc.StartsAt != "" {
		doc.ScheduledAt = doc.StartsAt
	}
	r.items[doc.ID] = doc
	out := doc
	return &out, nil
}

func (r *memEvents) Get(_ context.Context, id int64) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := doc
	return &out, nil
}

func (r *memEvents) Update(_ context.Context, id int64, apply func(*entities.Event)) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.items[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	apply(&doc)
	if doc.StartsAt != "" {
		doc.ScheduledAt = doc.StartsAt
	}
	r.items[id] = doc
	out := doc
	return &out, nil
}

func (r *memEvents) ListAll(_ context.Context) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Event, 0, len(r.items))
	for _, doc := range r.items {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	items map[string]entities.Profile
}

func newMemUsers() *memUsers {
	return &memUsers{items: make(map[string]entities.Profile)}
}

func (r *memUsers) FindByUserID(_ context.Context, userID string) (*entities.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.items[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	out := profile
	return &out, nil
}

func (r *memUsers) Save(_ context.Context, profile *entities.Profile) (*entities.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[profile.UserID] = *profile
	out := *profile
	return &out, nil
}

func (r *memUsers) TouchMeta(ctx context.Context, userID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.items[userID]
	profile.UserID = userID
	profile.Username = username
	r.items[userID] = profile
	return nil
}

func (r *memUsers) ListAll(_ context.Context) ([]entities.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Profile, 0, len(r.items))
	for _, profile := range r.items {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// sentMessage records one delivery attempt made through memMessenger.
type sentMessage struct {
	Recipient string
	Channel   string
	Text      string
	Buttons   []output.Button
}

// memMessenger records sends and can be told to fail for chosen
// recipients.
type memMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
	seq     int
}

func newMemMessenger() *memMessenger {
	return &memMessenger{failFor: make(map[string]bool)}
}

func (m *memMessenger) SendDM(_ context.Context, userID, text string, buttons ...output.Button) (entities.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[userID] {
		return entities.MessageRef{}, fmt.Errorf("dm to %s refused", userID)
	}
	m.seq++
	m.sent = append(m.sent, sentMessage{Recipient: userID, Text: text, Buttons: buttons})
	return entities.MessageRef{ChannelID: "dm-" + userID, MessageID: fmt.Sprintf("m%d", m.seq)}, nil
}

func (m *memMessenger) SendChannel(_ context.Context, channelID, text string, buttons ...output.Button) (entities.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[channelID] {
		return entities.MessageRef{}, fmt.Errorf("channel %s refused", channelID)
	}
	m.seq++
	m.sent = append(m.sent, sentMessage{Channel: channelID, Text: text, Buttons: buttons})
	return entities.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("m%d", m.seq)}, nil
}

func (m *memMessenger) EditMessage(_ context.Context, ref entities.MessageRef, text string, buttons ...output.Button) error {
	return nil
}

func (m *memMessenger) sentTo(recipient string) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, msg := range m.sent {
		if msg.Recipient == recipient {
			out = append(out, msg)
		}
	}
	return out
}

// keyT renders every message as its key, which keeps assertions
// locale-independent.
type keyT struct{}

func (keyT) T(_, key string, _ map[string]any) string { return key }
