package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campusbot/internal/domain"
	"campusbot/internal/domain/entities"
	"campusbot/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository persists events as whole JSON documents in the events
// table. Every mutation rewrites the full blob; concurrent updates to the
// same record race and the later write wins.
type EventRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool, now: time.Now}
}

func (r *EventRepository) Insert(ctx context.Context, event *entities.Event) (*entities.Event, error) {
	doc := *event
	now := r.now().UTC()
	prepareEventDoc(&doc, now, true)

	payload, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	// The blob is the authoritative encoding, so the assigned id has to
	// land inside it as well. Both statements run in one transaction so a
	// failure cannot leave a row whose document misses its id.
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO events (data, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
			payload, now, now,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		doc.ID = id
		payload, err := json.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE events SET data = $1 WHERE id = $2`, payload, id,
		); err != nil {
			return fmt.Errorf("store event id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*entities.Event, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM events WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}

	var doc entities.Event
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode event %d: %w", id, err)
	}
	if doc.ID == 0 {
		doc.ID = id
	}
	return &doc, nil
}

func (r *EventRepository) Update(ctx context.Context, id int64, apply func(*entities.Event)) (*entities.Event, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(doc)
	doc.ID = id
	now := r.now().UTC()
	prepareEventDoc(doc, now, false)

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET data = $1, updated_at = $2 WHERE id = $3`,
		payload, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrEventNotFound
	}
	return doc, nil
}

func (r *EventRepository) ListAll(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, data FROM events ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []entities.Event
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var doc entities.Event
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", id, err)
		}
		if doc.ID == 0 {
			doc.ID = id
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// prepareEventDoc normalizes a document before it is written: bookkeeping
// timestamps, tag vocabulary, attendee dedup, the scheduled_at mirror and
// the derived contact string.
func prepareEventDoc(e *entities.Event, now time.Time, isNew bool) {
	stamp := now.Format(time.RFC3339)
	if isNew && e.CreatedAt == "" {
		e.CreatedAt = stamp
	}
	e.UpdatedAt = stamp

	if e.Status == "" {
		e.Status = entities.StatusPending
	}

	e.Tags = domain.SanitizeTags(e.Tags)

	attendees := make([]string, 0, len(e.Attendees))
	seen := make(map[string]struct{}, len(e.Attendees))
	for _, id := range e.Attendees {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		attendees = append(attendees, id)
	}
	e.Attendees = attendees

	if e.ModerationMessages == nil {
		e.ModerationMessages = []entities.MessageRef{}
	}

	if e.StartsAt != "" {
		e.ScheduledAt = e.StartsAt
	}
	if e.ContactName != "" && e.ContactURL != "" {
		e.Contact = e.ContactName + " (" + e.ContactURL + ")"
	}
}
