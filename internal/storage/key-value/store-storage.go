package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/redis/go-redis/v9"
)

type StoreStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStoreStorage(rdb *redis.Client, ttl time.Duration) *StoreStorage {
	return &StoreStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *StoreStorage) GetStore(ctx context.Context, sessionID uuid.UUID) (model.StoreState, error) {
	storeKey := getStoreKey(sessionID)
	storeRaw, err := s.rdb.Get(ctx, storeKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.StoreState{}, model.ErrStoreDoesNotExist
		}
		return model.StoreState{}, fmt.Errorf("failed to get store %s: %w", sessionID, err)
	}
	var state model.StoreState
	if err = json.Unmarshal([]byte(storeRaw), &state); err != nil {
		return model.StoreState{}, fmt.Errorf("failed to unmarshal store %s: %w", sessionID, err)
	}
	return state, nil
}

func (s *StoreStorage) SaveStore(ctx context.Context, sessionID uuid.UUID, state model.StoreState) error {
	storeJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	storeKey := getStoreKey(sessionID)
	if err = s.rdb.Set(ctx, storeKey, storeJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save store %s: %w", storeKey, err)
	}
	return nil
}
