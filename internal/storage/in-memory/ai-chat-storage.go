package in_memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
)

type AIChatStorage struct {
	mu    sync.RWMutex
	chats map[uuid.UUID]*model.AIChat
}

func NewAIChatStorage() *AIChatStorage {
	return &AIChatStorage{
		chats: make(map[uuid.UUID]*model.AIChat),
	}
}

func (a *AIChatStorage) CreateChat(
	_ context.Context,
	chatID uuid.UUID,
	chatModel string,
	temperature float32,
) (model.AIChat, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if chat, ok := a.chats[chatID]; ok {
		return copyChat(chat), nil
	}
	chat := &model.AIChat{
		ChatID:           chatID,
		Model:            chatModel,
		Messages:         make([]model.Message, 0),
		ModelTemperature: temperature,
	}
	a.chats[chatID] = chat
	return copyChat(chat), nil
}

func (a *AIChatStorage) GetChat(_ context.Context, chatID uuid.UUID) (model.AIChat, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	chat, ok := a.chats[chatID]
	if !ok {
		return model.AIChat{}, model.ErrChatDoesNotExist
	}
	return copyChat(chat), nil
}

func (a *AIChatStorage) AddMessageToChat(
	_ context.Context,
	chatID uuid.UUID,
	messageText string,
	messageSource model.MessageSource,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	chat, ok := a.chats[chatID]
	if !ok {
		return model.ErrChatDoesNotExist
	}
	chat.Messages = append(
		chat.Messages, model.Message{
			Source: messageSource,
			Body:   messageText,
		},
	)
	return nil
}

func copyChat(chat *model.AIChat) model.AIChat {
	c := *chat
	c.Messages = append(make([]model.Message, 0, len(chat.Messages)), chat.Messages...)
	return c
}
