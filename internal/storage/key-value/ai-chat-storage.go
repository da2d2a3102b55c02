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

type messageInternal struct {
	Source model.MessageSource `json:"source"`
	Body   string              `json:"body"`
}

type chatInternal struct {
	ChatID           string  `json:"chat_id"`
	Model            string  `json:"model"`
	ModelTemperature float32 `json:"model_temperature"`
}

// AIChatStorage keeps chat settings as JSON and messages in a Redis list, so appends
// are atomic and never rewrite earlier messages.
type AIChatStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAIChatStorage(rdb *redis.Client, ttl time.Duration) *AIChatStorage {
	return &AIChatStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (a *AIChatStorage) CreateChat(
	ctx context.Context,
	chatID uuid.UUID,
	chatModel string,
	temperature float32,
) (model.AIChat, error) {
	chatInt := chatInternal{
		ChatID:           chatID.String(),
		Model:            chatModel,
		ModelTemperature: temperature,
	}
	chatIntJSON, err := json.Marshal(chatInt)
	if err != nil {
		return model.AIChat{}, fmt.Errorf("failed to marshal internal chat: %w", err)
	}
	chatIDKey := getChatIDKey(chatID)
	created, err := a.rdb.SetNX(ctx, chatIDKey, chatIntJSON, a.ttl).Result()
	if err != nil {
		return model.AIChat{}, fmt.Errorf("failed to save chatInternal %s: %w", chatIDKey, err)
	}
	if !created {
		return a.GetChat(ctx, chatID)
	}
	return model.AIChat{
		ChatID:           chatID,
		Model:            chatModel,
		Messages:         make([]model.Message, 0),
		ModelTemperature: temperature,
	}, nil
}

func (a *AIChatStorage) GetChat(ctx context.Context, chatID uuid.UUID) (model.AIChat, error) {
	chatInt, err := a.getChatInt(ctx, chatID)
	if err != nil {
		return model.AIChat{}, err
	}
	messagesRaw, err := a.rdb.LRange(ctx, getChatMessagesKey(chatID), 0, -1).Result()
	if err != nil {
		return model.AIChat{}, fmt.Errorf("failed to get chat messages %s: %w", chatID, err)
	}
	messages := make([]model.Message, 0, len(messagesRaw))
	for _, raw := range messagesRaw {
		var msg messageInternal
		if err = json.Unmarshal([]byte(raw), &msg); err != nil {
			return model.AIChat{}, fmt.Errorf("failed to unmarshal chat message %s: %w", chatID, err)
		}
		messages = append(
			messages, model.Message{
				Source: msg.Source,
				Body:   msg.Body,
			},
		)
	}
	return model.AIChat{
		ChatID:           chatID,
		Model:            chatInt.Model,
		ModelTemperature: chatInt.ModelTemperature,
		Messages:         messages,
	}, nil
}

func (a *AIChatStorage) AddMessageToChat(
	ctx context.Context,
	chatID uuid.UUID,
	messageText string,
	messageSource model.MessageSource,
) error {
	if _, err := a.getChatInt(ctx, chatID); err != nil {
		return err
	}
	msgJSON, err := json.Marshal(messageInternal{Source: messageSource, Body: messageText})
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}
	messagesKey := getChatMessagesKey(chatID)
	_, err = a.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, messagesKey, msgJSON)
		if a.ttl > 0 {
			// Both keys expire together.
			pipe.Expire(ctx, messagesKey, a.ttl)
			pipe.Expire(ctx, getChatIDKey(chatID), a.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append chat message %s: %w", chatID, err)
	}
	return nil
}

func (a *AIChatStorage) getChatInt(ctx context.Context, chatID uuid.UUID) (chatInternal, error) {
	chatIDKey := getChatIDKey(chatID)
	chatIntRaw, err := a.rdb.Get(ctx, chatIDKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return chatInternal{}, model.ErrChatDoesNotExist
		}
		return chatInternal{}, fmt.Errorf("failed to get chat %s: %w", chatID, err)
	}
	var chatInt chatInternal
	if err = json.Unmarshal([]byte(chatIntRaw), &chatInt); err != nil {
		return chatInternal{}, fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
	}
	return chatInt, nil
}
