package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
)

type SessionStorage interface {
	GetSessionIDForTelegramChat(ctx context.Context, telegramID int64) (uuid.UUID, error)
	CreateSession(ctx context.Context, telegramID int64) (model.Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
}

type SessionUsecaseDeps struct {
	SessionStorage SessionStorage
}

type SessionUsecase struct {
	SessionUsecaseDeps
}

func NewSessionUsecase(deps SessionUsecaseDeps) *SessionUsecase {
	return &SessionUsecase{
		SessionUsecaseDeps: deps,
	}
}

// GetSessionForTelegramChat returns the chat's storefront session, opening one on first contact.
func (u *SessionUsecase) GetSessionForTelegramChat(ctx context.Context, telegramID int64) (model.Session, error) {
	sessionID, err := u.SessionStorage.GetSessionIDForTelegramChat(ctx, telegramID)
	switch {
	case err == nil:
		return u.getSession(ctx, sessionID, telegramID)
	case !errors.Is(err, model.ErrSessionDoesNotExist):
		return model.Session{}, fmt.Errorf("failed to get session for telegram chat: %w", err)
	}

	session, err := u.SessionStorage.CreateSession(ctx, telegramID)
	if errors.Is(err, model.ErrSessionAlreadyExists) {
		// Another update from the same chat created it first.
		sessionID, err = u.SessionStorage.GetSessionIDForTelegramChat(ctx, telegramID)
		if err != nil {
			return model.Session{}, fmt.Errorf("failed to get session for telegram chat: %w", err)
		}
		return u.getSession(ctx, sessionID, telegramID)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (u *SessionUsecase) getSession(ctx context.Context, sessionID uuid.UUID, telegramID int64) (model.Session, error) {
	session, err := u.SessionStorage.GetSession(ctx, sessionID)
	if errors.Is(err, model.ErrSessionDoesNotExist) {
		// The mapping outlived the record; the id is all the storefront needs.
		return model.Session{SessionID: sessionID, TelegramID: telegramID}, nil
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return session, nil
}
