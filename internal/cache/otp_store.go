package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no value is stored, including after expiry.
var ErrNotFound = errors.New("cache: key not found")

const otpKeyPrefix = "otp:"

// OTPStore keeps one code per email. Saving again replaces the previous code.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
}

type redisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) OTPStore {
	return &redisOTPStore{client: client}
}

func (s *redisOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err()
}

func (s *redisOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}
