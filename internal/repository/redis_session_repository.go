package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/service-cart/internal/model"
)

// RedisSessionRepository stores sessions under session:<owner> with a TTL
// refreshed on every save.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
	})
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func (r *RedisSessionRepository) Get(ctx context.Context, owner string) (*model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(data, time.Time{})
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(session.Owner), data, r.ttl).Err()
}

func (r *RedisSessionRepository) Delete(ctx context.Context, owner string) error {
	return r.client.Del(ctx, sessionKey(owner)).Err()
}

// PurgeStale is a no-op: keys expire on their own.
func (r *RedisSessionRepository) PurgeStale(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisSessionRepository) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}

func sessionKey(owner string) string {
	return fmt.Sprintf("session:%s", owner)
}
