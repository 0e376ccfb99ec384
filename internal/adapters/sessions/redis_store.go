package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vtravel/hotelbot/internal/domain/entities"
	"github.com/vtravel/hotelbot/internal/domain/repositories"
	"github.com/vtravel/hotelbot/pkg/config"
)

const sessionKeyPrefix = "hotelbot:session:"

// RedisStore keeps dialogue states in Redis with a per-key idle TTL. Every
// Put refreshes the TTL, so only abandoned dialogues expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repositories.SessionRepository = (*RedisStore)(nil)

// NewRedisStore connects to Redis and returns a session store
func NewRedisStore(cfg *config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Ping verifies the connection to Redis
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the dialogue state for a conversation, or nil when none exists
func (s *RedisStore) Get(ctx context.Context, chatID int64) (*entities.DialogueState, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	state := &entities.DialogueState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, nil
}

// Put stores the state and refreshes its idle TTL
func (s *RedisStore) Put(ctx context.Context, state *entities.DialogueState) error {
	state.Touch()
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(state.ChatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete discards the state for a conversation
func (s *RedisStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(chatID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(chatID, 10)
}
