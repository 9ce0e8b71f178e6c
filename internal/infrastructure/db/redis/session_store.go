package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clubhouse/members-only/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps sessions in Redis.
// Key format: session:<id> (hash) and session:<id>:flash (list of JSON flashes).
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore; flashes expire after ttl when the
// session itself is never saved.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

type redisSession struct {
	UserID    string `redis:"user_id"`
	ExpiresAt int64  `redis:"expires_at"`
}

func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	res := s.client.HGetAll(ctx, sessionKey(id))
	fields, err := res.Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	var rs redisSession
	if err := res.Scan(&rs); err != nil {
		return nil, fmt.Errorf("load session: decode: %w", err)
	}

	expiresAt := time.Unix(rs.ExpiresAt, 0).UTC()
	if time.Now().After(expiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Session{ID: id, UserID: rs.UserID, ExpiresAt: expiresAt}, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	key := sessionKey(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, redisSession{UserID: sess.UserID, ExpiresAt: sess.ExpiresAt.Unix()})
		pipe.ExpireAt(ctx, key, sess.ExpiresAt)
		pipe.ExpireAt(ctx, flashKey(sess.ID), sess.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), flashKey(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (s *SessionStore) PushFlash(ctx context.Context, id string, f domain.Flash) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}

	key := flashKey(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// DrainFlashes reads and deletes the flash list inside one MULTI/EXEC.
func (s *SessionStore) DrainFlashes(ctx context.Context, id string) ([]domain.Flash, error) {
	key := flashKey(id)

	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("drain flashes: %w", err)
	}

	raw := items.Val()
	flashes := make([]domain.Flash, 0, len(raw))
	for _, item := range raw {
		var f domain.Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			return nil, fmt.Errorf("drain flashes: decode: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func flashKey(id string) string {
	return "session:" + id + ":flash"
}
