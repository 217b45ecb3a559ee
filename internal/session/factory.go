package session

import (
	"context"
	"fmt"
)

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// NewStore builds a Store for the given driver. The redis driver needs WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch storeType {
	case StoreTypeMemory, "":
		return NewMemoryStoreWithTTL(cfg.ttl), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(cfg.redisClient, cfg.ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}

// Open returns the stored session with the given id, creating an empty one if needed.
func Open(ctx context.Context, s Store, id string) (*Data, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	if data != nil {
		return data, nil
	}

	data = New(id)
	if err := s.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}
	return data, nil
}
