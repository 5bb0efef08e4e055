package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storecraft-backend/pkg/config"
	redisclient "github.com/angelmondragon/storecraft-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type sessionKeyer interface {
	SessionKey(tokenID string) string
	SessionVersionKey(userID int64) string
}

// Manager tracks issued tokens and per-user session versions in Redis so
// tokens can be revoked before their natural expiry.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Has(ctx context.Context, tokenID string) (bool, error)
	CurrentVersion(ctx context.Context, userID int64) (int64, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create registers an issued token ID. The entry expires alongside the token
// itself, so revocation state never outlives the token.
func (m *Manager) Create(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(tokenID), "1", m.ttl)
}

// Has reports whether the token ID still has an active session.
func (m *Manager) Has(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("token id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(tokenID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session tied to the token ID.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(tokenID))
}

// CurrentVersion returns the user's session version counter. A user with no
// counter yet is at version zero.
func (m *Manager) CurrentVersion(ctx context.Context, userID int64) (int64, error) {
	raw, err := m.store.Get(ctx, m.keyer.SessionVersionKey(userID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, nil
		}
		return 0, err
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing session version: %w", err)
	}
	return version, nil
}

// BumpVersion increments the user's session version, invalidating every token
// minted with an older version.
func (m *Manager) BumpVersion(ctx context.Context, userID int64) (int64, error) {
	return m.store.Incr(ctx, m.keyer.SessionVersionKey(userID))
}
