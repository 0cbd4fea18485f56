// Package sessions owns the client-side session record: the backend-issued
// bearer token plus the profile fields the views display. Every read and
// write goes through one injected Store; nothing else touches session state.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rentfest/web/models"
)

// CookieName is the well-known cookie carrying the opaque session id.
const CookieName = "rentfest_session"

const keyPrefix = "session:"

var ErrNotFound = errors.New("session not found")

// Store persists session records keyed by an opaque id.
type Store interface {
	Save(ctx context.Context, sess *models.Session) (string, error)
	Get(ctx context.Context, sid string) (*models.Session, error)
	Delete(ctx context.Context, sid string) error
	TTL() time.Duration
}

// RedisStore keeps sessions in Redis with a TTL, so a stale record expires
// even if the browser never logs out.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a store over the shared Redis client. SESSION_TTL_HOURS
// controls expiry, default 24.
func NewRedisStore(client *redis.Client) *RedisStore {
	ttl := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) (string, error) {
	sid := uuid.NewString()
	buf, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sid, buf, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sid).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// MemoryStore is a mutex-guarded in-process store, used by tests and as a
// fallback when Redis is unavailable in development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      24 * time.Hour,
	}
}

func (s *MemoryStore) Save(_ context.Context, sess *models.Session) (string, error) {
	sid := uuid.NewString()
	copied := *sess
	s.mu.Lock()
	s.sessions[sid] = &copied
	s.mu.Unlock()
	return sid, nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}
