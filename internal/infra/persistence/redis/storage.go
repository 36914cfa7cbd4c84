package redis

import (
	"context"

	goredis "github.com/go-redis/redis/v8"
)

// Storage keeps cart identifiers in Redis, keyed as-is. Values never
// expire; a cart identifier is replaced, not aged out.
type Storage struct {
	client *goredis.Client
}

func NewStorage(client *goredis.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}
