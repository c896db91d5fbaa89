package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nurpe/service-cart/internal/model"
)

// MemorySessionRepository keeps encoded sessions in process memory, so
// callers never share a *model.Session with the store.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	updatedAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]memoryEntry)}
}

func (r *MemorySessionRepository) Get(_ context.Context, owner string) (*model.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[owner]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(entry.payload, entry.updatedAt)
}

func (r *MemorySessionRepository) Save(_ context.Context, session *model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	r.mu.Lock()
	r.sessions[session.Owner] = memoryEntry{payload: payload, updatedAt: session.UpdatedAt}
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, owner string) error {
	r.mu.Lock()
	delete(r.sessions, owner)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) PurgeStale(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for owner, entry := range r.sessions {
		if entry.updatedAt.Before(before) {
			delete(r.sessions, owner)
			purged++
		}
	}
	return purged, nil
}
