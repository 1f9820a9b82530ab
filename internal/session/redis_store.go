package session

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
)

type RedisStore struct {
	client *goredis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed flow-state store.
func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*FlowState, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == goredis.Nil {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", apperrors.ErrSession, err)
	}

	var s FlowState
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", apperrors.ErrSession, err)
	}

	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, s FlowState) error {
	if sessionID == "" {
		return fmt.Errorf("%w: missing session id", apperrors.ErrSession)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", apperrors.ErrSession, err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, FlowTTL).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", apperrors.ErrSession, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", apperrors.ErrSession, err)
	}
	return nil
}
