package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "auth:token:"

// TokenRegistry tracks issued access tokens so they can be revoked before
// they expire.
type TokenRegistry interface {
	Register(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

type redisTokenRegistry struct {
	client *redis.Client
}

func NewTokenRegistry(client *redis.Client) TokenRegistry {
	return &redisTokenRegistry{client: client}
}

func (r *redisTokenRegistry) Register(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, tokenKeyPrefix+tokenID, userID.String(), ttl).Err()
}

func (r *redisTokenRegistry) IsActive(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	err := r.client.Get(ctx, tokenKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisTokenRegistry) Revoke(ctx context.Context, tokenID string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return r.client.Del(ctx, tokenKeyPrefix+tokenID).Err()
}
