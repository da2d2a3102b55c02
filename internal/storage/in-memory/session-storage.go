package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
)

type SessionStorage struct {
	mu               sync.RWMutex
	sessions         map[uuid.UUID]model.Session
	telegramSessions map[int64]uuid.UUID
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions:         make(map[uuid.UUID]model.Session),
		telegramSessions: make(map[int64]uuid.UUID),
	}
}

func (s *SessionStorage) CreateSession(_ context.Context, telegramID int64) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.telegramSessions[telegramID]; ok {
		return model.Session{}, model.ErrSessionAlreadyExists
	}
	session := model.Session{
		SessionID:  uuid.New(),
		TelegramID: telegramID,
		CreatedAt:  time.Now().UTC(),
	}
	s.telegramSessions[telegramID] = session.SessionID
	s.sessions[session.SessionID] = session
	return session, nil
}

func (s *SessionStorage) GetSession(_ context.Context, sessionID uuid.UUID) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, model.ErrSessionDoesNotExist
	}
	return session, nil
}

func (s *SessionStorage) GetSessionIDForTelegramChat(_ context.Context, telegramID int64) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.telegramSessions[telegramID]
	if !ok {
		return uuid.Nil, model.ErrSessionDoesNotExist
	}
	return sessionID, nil
}
