package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/railwatch/railwatch/internal/auth"
	"github.com/railwatch/railwatch/internal/model"
)

const (
	// sessionPrefix is the Redis key prefix for sessions.
	sessionPrefix = "session:"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// storedSession is the JSON value kept under a session key.
type storedSession struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// sessionKey derives the Redis key for a token. The raw token is never stored.
func sessionKey(token string) string {
	return sessionPrefix + auth.QuickHash(token)
}

// CreateSession binds token to the identity for ttl.
func (c *Cache) CreateSession(ctx context.Context, token string, id *model.Identity, ttl time.Duration) error {
	data, err := json.Marshal(storedSession{
		UserID:    id.UserID,
		Username:  id.Username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession resolves token to its identity.
// Returns ErrSessionNotFound on a miss or a corrupted entry.
func (c *Cache) GetSession(ctx context.Context, token string) (*model.Identity, error) {
	data, err := c.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil || s.UserID == "" {
		// Corrupted entry - treat as miss
		return nil, ErrSessionNotFound
	}

	return &model.Identity{UserID: s.UserID, Username: s.Username}, nil
}

// DeleteSession invalidates token. Deleting an unknown token is not an error.
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
