package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"muin/internal/domain"
)

// Store persists QuotaState per identifier. Load returns nil, nil when the
// identifier has no state yet.
type Store interface {
	Load(ctx context.Context, identifier string) (*domain.QuotaState, error)
	Save(ctx context.Context, identifier string, state domain.QuotaState) error
}

// stateTTL outlives one local day so yesterday's key expires on its own.
const stateTTL = 48 * time.Hour

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the state as JSON under quota:<identifier>.
type RedisStore struct {
	client redisKV
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(identifier string) string {
	return "quota:" + identifier
}

func (s *RedisStore) Load(ctx context.Context, identifier string) (*domain.QuotaState, error) {
	val, err := s.client.Get(ctx, redisKey(identifier)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load quota: %w", err)
	}
	var state domain.QuotaState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		// Corrupt state is treated as absent and rewritten on save.
		return nil, nil
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, identifier string, state domain.QuotaState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(identifier), payload, stateTTL).Err(); err != nil {
		return fmt.Errorf("save quota: %w", err)
	}
	return nil
}

// MemoryStore is the process local fallback when Redis is not configured.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]domain.QuotaState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: map[string]domain.QuotaState{}}
}

func (s *MemoryStore) Load(_ context.Context, identifier string) (*domain.QuotaState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[identifier]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, identifier string, state domain.QuotaState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[identifier] = state
	return nil
}
