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

var _ output.UserRepository = (*UserRepository)(nil)

// UserRepository stores one JSON profile document per chat user, keyed by
// the platform user id.
type UserRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool, now: time.Now}
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*entities.Profile, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM users WHERE user_id = $1`, userID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}

	var profile entities.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	return &profile, nil
}

func (r *UserRepository) Save(ctx context.Context, profile *entities.Profile) (*entities.Profile, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("save profile: empty user id")
	}
	doc := *profile
	if doc.Thermometer != nil {
		normalized := doc.Thermometer.Normalize()
		doc.Thermometer = &normalized
	}

	payload, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	now := r.now().UTC()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (user_id, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		doc.UserID, payload, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save profile %s: %w", doc.UserID, err)
	}
	return &doc, nil
}

// TouchMeta refreshes the stored username for a known user and creates a
// bare record for an unknown one, so every user the bot has talked to is
// addressable later.
func (r *UserRepository) TouchMeta(ctx context.Context, userID, username string) error {
	profile, err := r.FindByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		_, err = r.Save(ctx, &entities.Profile{UserID: userID, Username: username})
		return err
	}
	if err != nil {
		return err
	}
	if profile.Username == username {
		return nil
	}
	profile.Username = username
	_, err = r.Save(ctx, profile)
	return err
}

func (r *UserRepository) ListAll(ctx context.Context) ([]entities.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, data FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []entities.Profile
	for rows.Next() {
		var (
			userID  string
			payload []byte
		)
		if err := rows.Scan(&userID, &payload); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		var profile entities.Profile
		if err := json.Unmarshal(payload, &profile); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", userID, err)
		}
		if profile.UserID == "" {
			profile.UserID = userID
		}
		out = append(out, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}
