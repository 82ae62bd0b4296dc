package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis guarda cada slot numa chave única, sem TTL — o estado vive enquanto
// o usuário não apagar.
type Redis struct{ r *redis.Client }

func NewRedis(r *redis.Client) *Redis { return &Redis{r: r} }

func (s *Redis) Load(ctx context.Context, slot string) ([]byte, error) {
	b, err := s.r.Get(ctx, slot).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Redis) Save(ctx context.Context, slot string, payload []byte) error {
	return s.r.Set(ctx, slot, payload, 0).Err()
}
