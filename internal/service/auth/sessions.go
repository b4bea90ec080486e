package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID uuid.UUID) string { return "session:" + sessionID.String() }

// SessionStore tracks live admin sessions. A token is only honoured while its
// session exists.
type SessionStore interface {
	Create(ctx context.Context, sessionID, adminID uuid.UUID, ttl time.Duration) error
	// Lookup returns the admin owning the session, or ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	// Delete reports whether a session was removed.
	Delete(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (r *RedisSessions) Create(ctx context.Context, sessionID, adminID uuid.UUID, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, redisKeySession(sessionID), adminID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *RedisSessions) Lookup(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	v, err := r.rdb.Get(ctx, redisKeySession(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis get session: %w", err)
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return id, nil
}

func (r *RedisSessions) Delete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := r.rdb.Del(ctx, redisKeySession(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}
