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

type sessionInternal struct {
	SessionID  string    `json:"session_id"`
	TelegramID int64     `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SessionStorage keeps sessions for ttl; an expired session is simply gone and the
// next message from the chat starts a fresh one.
type SessionStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStorage(rdb *redis.Client, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *SessionStorage) CreateSession(ctx context.Context, telegramID int64) (model.Session, error) {
	session := model.Session{
		SessionID:  uuid.New(),
		TelegramID: telegramID,
		CreatedAt:  time.Now().UTC(),
	}
	telegramKey := getTelegramSessionKey(telegramID)
	created, err := s.rdb.SetNX(ctx, telegramKey, session.SessionID.String(), s.ttl).Result()
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to save telegram session %s: %w", telegramKey, err)
	}
	if !created {
		return model.Session{}, model.ErrSessionAlreadyExists
	}

	sessionJSON, err := json.Marshal(sessionInternal{
		SessionID:  session.SessionID.String(),
		TelegramID: session.TelegramID,
		CreatedAt:  session.CreatedAt,
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to marshal internal session: %w", err)
	}
	sessionKey := getSessionKey(session.SessionID)
	if err = s.rdb.Set(ctx, sessionKey, sessionJSON, s.ttl).Err(); err != nil {
		return model.Session{}, fmt.Errorf("failed to save session %s: %w", sessionKey, err)
	}
	return session, nil
}

func (s *SessionStorage) GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	sessionKey := getSessionKey(sessionID)
	sessionRaw, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, model.ErrSessionDoesNotExist
		}
		return model.Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	var sessionInt sessionInternal
	if err = json.Unmarshal([]byte(sessionRaw), &sessionInt); err != nil {
		return model.Session{}, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return model.Session{
		SessionID:  sessionID,
		TelegramID: sessionInt.TelegramID,
		CreatedAt:  sessionInt.CreatedAt,
	}, nil
}

func (s *SessionStorage) GetSessionIDForTelegramChat(ctx context.Context, telegramID int64) (uuid.UUID, error) {
	telegramKey := getTelegramSessionKey(telegramID)
	sessionIDStr, err := s.rdb.Get(ctx, telegramKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, model.ErrSessionDoesNotExist
		}
		return uuid.Nil, fmt.Errorf("failed to get telegram session %s: %w", telegramKey, err)
	}
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse sessionID %s: %w", sessionIDStr, err)
	}
	return sessionID, nil
}
