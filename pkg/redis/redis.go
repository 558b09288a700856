package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/config"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to Redis and verifies the connection with a ping.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// Store adapts a client to the small key/value contracts used by the
// rate limiter, the geocode cache and refresh-token revocation.
type Store struct {
	rdb redis.Cmdable
}

func NewStore(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

// IncrWithTTL increments key and starts its expiry window on the first hit.
func (s *Store) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// RevokeToken marks a token id as revoked until expiry passes.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	logger.Debug("Revoking token", map[string]interface{}{
		"expiry": expiry.String(),
	})

	if err := s.rdb.Set(ctx, "revoked:"+tokenID, "1", expiry).Err(); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	return nil
}

func (s *Store) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok, err := s.Get(ctx, "revoked:"+tokenID)
	if err != nil {
		logger.Error("Failed to check token revocation", err)
		return false, err
	}
	return ok, nil
}
