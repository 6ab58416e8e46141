// Package cache holds the Redis client and the OTP store built on it.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service owns the Redis client shared by the cache-backed stores.
type Service interface {
	Health(ctx context.Context) map[string]string
	Close() error
	Client() *redis.Client
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

type service struct {
	client *redis.Client
}

// New creates the client. go-redis connects lazily, so no round trip is made here.
func New(opts Options) Service {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &service{client: client}
}

func (s *service) Client() *redis.Client {
	return s.client
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.client.Ping(ctx).Err(); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("cache down: %v", err)
		slog.Error("cache down", slog.Any("error", err))
		return stats
	}

	stats["status"] = "up"
	pool := s.client.PoolStats()
	stats["total_conns"] = strconv.FormatUint(uint64(pool.TotalConns), 10)
	stats["idle_conns"] = strconv.FormatUint(uint64(pool.IdleConns), 10)
	stats["timeouts"] = strconv.FormatUint(uint64(pool.Timeouts), 10)
	return stats
}

func (s *service) Close() error {
	return s.client.Close()
}
