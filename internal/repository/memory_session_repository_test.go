package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/service-cart/internal/model"
)

func TestMemorySessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()

	_, err := repo.Get(ctx, "user:1")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	session := model.NewSession("user:1")
	session.AddToCart(3, 2)
	session.SetSelection(4, 1)
	session.UpdatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, session))

	// later changes to the caller's copy do not leak into the store
	session.AddToCart(5, 1)

	got, err := repo.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ServiceID: 3, Quantity: 2}}, got.Cart)
	assert.Equal(t, map[int64]int{4: 1}, got.Selections)
	assert.True(t, session.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, "user:1"))
	_, err = repo.Get(ctx, "user:1")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestMemorySessionRepository_PurgeStale(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	old := model.NewSession("anon:old")
	old.UpdatedAt = now.Add(-48 * time.Hour)
	fresh := model.NewSession("anon:fresh")
	fresh.UpdatedAt = now.Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, fresh))

	purged, err := repo.PurgeStale(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.Get(ctx, "anon:old")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = repo.Get(ctx, "anon:fresh")
	assert.NoError(t, err)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:user:42", sessionKey("user:42"))
}
