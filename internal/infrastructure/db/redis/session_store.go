package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bookline/booking-gateway/internal/core/ports"
)

const defaultSessionKey = "session:current"

// SessionStore is the durable storage behind the session manager. The whole
// record lives under a single key so Save and Clear replace it atomically.
// No TTL is applied: expiry is enforced by the session manager from the
// token's own exp claim.
type SessionStore struct {
	client *redis.Client
	key    string
}

// NewSessionStore wraps an established Redis client. An empty key selects
// the default.
func NewSessionStore(client *redis.Client, key string) *SessionStore {
	if key == "" {
		key = defaultSessionKey
	}
	return &SessionStore{client: client, key: key}
}

func (s *SessionStore) Save(ctx context.Context, rec ports.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context) (ports.SessionRecord, bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return ports.SessionRecord{}, false, nil
	}
	if err != nil {
		return ports.SessionRecord{}, false, fmt.Errorf("load session: %w", err)
	}
	var rec ports.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ports.SessionRecord{}, false, fmt.Errorf("decode session: %w", err)
	}
	return rec, true, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
