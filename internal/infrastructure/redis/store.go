package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/otp-login/internal/domain"
)

const keyPrefix = "otp:"

// consumeScript deletes KEYS[1] only while it still holds ARGV[1].
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CodeStore keeps pending codes in Redis without a TTL; a code lives until
// it is consumed or replaced.
type CodeStore struct {
	client *goredis.Client
}

func NewCodeStore(client *goredis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// NewClient parses url, connects and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (s *CodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, keyPrefix+email).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *CodeStore) Set(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, keyPrefix+email, code, 0).Err()
}

func (s *CodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}

func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + email}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n == 1, nil
}
