package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

const usedKeyPrefix = "commitment:used:"

// Redis tracks used commitments in Redis. SETNX gives the same atomic
// check-and-set semantics as the in-memory registry.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (s *Redis) MarkUsed(ctx context.Context, c id.Commitment) error {
	set, err := s.client.SetNX(ctx, usedKeyPrefix+c.String(), "1", 0).Result()
	if err != nil {
		return fmt.Errorf("mark commitment used: %w", err)
	}
	if !set {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *Redis) Release(ctx context.Context, c id.Commitment) error {
	if err := s.client.Del(ctx, usedKeyPrefix+c.String()).Err(); err != nil {
		return fmt.Errorf("release commitment: %w", err)
	}
	return nil
}

func (s *Redis) Used(ctx context.Context, c id.Commitment) (bool, error) {
	n, err := s.client.Exists(ctx, usedKeyPrefix+c.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check commitment: %w", err)
	}
	return n > 0, nil
}
