package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/service-cart/internal/model"
)

// SessionRepository keeps sessions as JSON payloads in the app_state table.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Get(ctx context.Context, owner string) (*model.Session, error) {
	var row struct {
		Owner     string
		Payload   []byte
		UpdatedAt time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT owner, payload, updated_at
		FROM app_state
		WHERE owner = ?
	`, owner).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if row.Owner == "" {
		return nil, ErrSessionNotFound
	}

	return decodeSession(row.Payload, row.UpdatedAt)
}

func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = r.db.WithContext(ctx).Exec(`
		INSERT INTO app_state (owner, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner) DO UPDATE
		SET payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, session.Owner, payload, session.UpdatedAt).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, owner string) error {
	if err := r.db.WithContext(ctx).Exec(`DELETE FROM app_state WHERE owner = ?`, owner).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM app_state WHERE updated_at < ?`, before)
	if result.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func decodeSession(payload []byte, updatedAt time.Time) (*model.Session, error) {
	var session model.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.Selections == nil {
		session.Selections = make(map[int64]int)
	}
	if session.Cart == nil {
		session.Cart = []model.CartItem{}
	}
	if !updatedAt.IsZero() {
		session.UpdatedAt = updatedAt
	}
	return &session, nil
}
