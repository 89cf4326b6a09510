package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued refresh tokens. A refresh token is valid only
// while present in the store; rotation removes the old one.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

const refreshKeyPrefix = "refresh:"

// RedisTokenStore keeps refresh tokens in Redis with a TTL matching the
// token's lifetime.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore builds a Redis-backed token store.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err(); err != nil {
		return err
	}
	// Track the user's live tokens so logout-everywhere can find them.
	if err := s.client.SAdd(ctx, refreshKeyPrefix+"user:"+userID, token).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, refreshKeyPrefix+"user:"+userID, ttl).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	return userID, err
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	userID, err := s.client.Get(ctx, refreshKeyPrefix+token).Result()
	if err == nil {
		_ = s.client.SRem(ctx, refreshKeyPrefix+"user:"+userID, token).Err()
	}
	return s.client.Del(ctx, refreshKeyPrefix+token).Err()
}

func (s *RedisTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	setKey := refreshKeyPrefix + "user:" + userID
	tokens, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, token := range tokens {
		_ = s.client.Del(ctx, refreshKeyPrefix+token).Err()
	}
	return s.client.Del(ctx, setKey).Err()
}

type memoryToken struct {
	userID    string
	expiresAt time.Time
}

// MemoryTokenStore keeps refresh tokens in memory. Used in tests and when
// no Redis is configured.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

// NewMemoryTokenStore builds an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken)}
}

func (s *MemoryTokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrInvalidToken
	}
	return entry.userID, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *MemoryTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}
