package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists one bearer token per session id. Get returns "" when
// no token is stored.
type TokenStore interface {
	Get(ctx context.Context, sid string) (string, error)
	Set(ctx context.Context, sid, token string) error
	Delete(ctx context.Context, sid string) error
}

// RedisStore keeps tokens under "token:<sid>" with a sliding TTL: every
// read pushes the expiry out again.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "token:",
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, sid string) (string, error) {
	token, err := s.client.GetEx(ctx, s.prefix+sid, s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token for session %s: %w", sid, err)
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, token string) error {
	if err := s.client.Set(ctx, s.prefix+sid, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token for session %s: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.prefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to delete token for session %s: %w", sid, err)
	}
	return nil
}

// MemoryStore is used when no Redis address is configured. Tokens do not
// survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sid], nil
}

func (s *MemoryStore) Set(ctx context.Context, sid, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = token
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	return nil
}
