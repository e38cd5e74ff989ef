package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis. The TTL slides: every request that
// carries the session either saves or touches it.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = id
	return sess, nil
}

// Save writes the session and removes the id it was rotated away from.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key(sess.ID), raw, s.ttl)
	if prev := sess.PreviousID(); prev != "" && prev != sess.ID {
		pipe.Del(ctx, key(prev))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	sess.modified = false
	sess.previousID = ""
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, key(id), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
