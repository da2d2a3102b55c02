package in_memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
)

type StoreStorage struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]model.StoreState
}

func NewStoreStorage() *StoreStorage {
	return &StoreStorage{
		stores: make(map[uuid.UUID]model.StoreState),
	}
}

func (s *StoreStorage) GetStore(_ context.Context, sessionID uuid.UUID) (model.StoreState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.stores[sessionID]
	if !ok {
		return model.StoreState{}, model.ErrStoreDoesNotExist
	}
	return copyState(state), nil
}

func (s *StoreStorage) SaveStore(_ context.Context, sessionID uuid.UUID, state model.StoreState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[sessionID] = copyState(state)
	return nil
}

func copyState(state model.StoreState) model.StoreState {
	return model.StoreState{
		Books: append([]model.Book(nil), state.Books...),
		Cart:  append([]model.CartItem(nil), state.Cart...),
	}
}
