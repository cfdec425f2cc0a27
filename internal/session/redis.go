package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/liftlink/internal/config"
)

const keyPrefix = "liftlink:"

// NewRedisClient initializes a Redis client from config and pings it.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return client, nil
}

// RedisStore keeps sessions in Redis so several API processes can share them.
//
// Layout:
//   - liftlink:session:<token>        -> user id (string, optional TTL)
//   - liftlink:user_sessions:<userID> -> set of tokens
type RedisStore struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{Client: client, ttl: ttl}
}

func keyForSession(token string) string { return keyPrefix + "session:" + token }

func keyForUser(userID string) string { return keyPrefix + "user_sessions:" + userID }

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	token := newToken()
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyForSession(token), userID, s.ttl)
		pipe.SAdd(ctx, keyForUser(userID), token)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.Client.Get(ctx, keyForSession(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	userID, err := s.Resolve(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyForSession(token))
		pipe.SRem(ctx, keyForUser(userID), token)
		return nil
	})
	return err
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	tokens, err := s.Client.SMembers(ctx, keyForUser(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, keyForSession(t))
	}
	keys = append(keys, keyForUser(userID))
	return s.Client.Del(ctx, keys...).Err()
}

// Flush deletes only keys under the liftlink: prefix.
func (s *RedisStore) Flush(ctx context.Context) error {
	iter := s.Client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}
