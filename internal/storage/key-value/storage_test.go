package key_value

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSessionStorage(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	storage := NewSessionStorage(rdb, time.Hour)

	_, err := storage.GetSessionIDForTelegramChat(ctx, 42)
	require.ErrorIs(t, err, model.ErrSessionDoesNotExist)

	session, err := storage.CreateSession(ctx, 42)
	require.NoError(t, err)

	_, err = storage.CreateSession(ctx, 42)
	assert.ErrorIs(t, err, model.ErrSessionAlreadyExists)

	sessionID, err := storage.GetSessionIDForTelegramChat(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, sessionID)

	got, err := storage.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, session.TelegramID, got.TelegramID)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
}

func TestSessionStorageExpires(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	storage := NewSessionStorage(rdb, time.Minute)

	session, err := storage.CreateSession(ctx, 42)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = storage.GetSessionIDForTelegramChat(ctx, 42)
	assert.ErrorIs(t, err, model.ErrSessionDoesNotExist)
	_, err = storage.GetSession(ctx, session.SessionID)
	assert.ErrorIs(t, err, model.ErrSessionDoesNotExist)

	fresh, err := storage.CreateSession(ctx, 42)
	require.NoError(t, err)
	assert.NotEqual(t, session.SessionID, fresh.SessionID)
}

func TestStoreStorage(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	storage := NewStoreStorage(rdb, 0)
	first, second := uuid.New(), uuid.New()

	_, err := storage.GetStore(ctx, first)
	require.ErrorIs(t, err, model.ErrStoreDoesNotExist)

	book := model.Book{
		ID:                "pc-1",
		Title:             "The Silent Horizon",
		Author:            "Princewill Cosmas",
		Price:             model.PricePremium,
		Category:          model.CategoryOwnershipFree,
		Rating:            5,
		IsCreatorOriginal: true,
		Pages:             420,
		PublishedYear:     2024,
	}
	state := model.StoreState{
		Books: []model.Book{book},
		Cart:  []model.CartItem{{Book: book, Quantity: 2}},
	}
	require.NoError(t, storage.SaveStore(ctx, first, state))
	require.NoError(t, storage.SaveStore(ctx, second, model.StoreState{Books: []model.Book{book}}))

	got, err := storage.GetStore(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	other, err := storage.GetStore(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, other.Cart)
}

func TestAIChatStorage(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	storage := NewAIChatStorage(rdb, time.Hour)
	chatID := uuid.New()

	err := storage.AddMessageToChat(ctx, chatID, "hello", model.MessageSourceUser)
	require.ErrorIs(t, err, model.ErrChatDoesNotExist)

	chat, err := storage.CreateChat(ctx, chatID, "gemini-3-flash-preview", 0.8)
	require.NoError(t, err)
	assert.Empty(t, chat.Messages)

	require.NoError(t, storage.AddMessageToChat(ctx, chatID, "hello", model.MessageSourceUser))
	require.NoError(t, storage.AddMessageToChat(ctx, chatID, "greetings", model.MessageSourceAssistant))

	got, err := storage.GetChat(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-flash-preview", got.Model)
	assert.InDelta(t, 0.8, got.ModelTemperature, 1e-6)
	assert.Equal(t, []model.Message{
		{Source: model.MessageSourceUser, Body: "hello"},
		{Source: model.MessageSourceAssistant, Body: "greetings"},
	}, got.Messages)

	again, err := storage.CreateChat(ctx, chatID, "other", 1)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 2)
	assert.Equal(t, "gemini-3-flash-preview", again.Model)

	assert.Greater(t, mr.TTL(getChatMessagesKey(chatID)), time.Duration(0))
}

func TestAIChatStorageAppendRefreshesChatTTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	storage := NewAIChatStorage(rdb, time.Hour)
	chatID := uuid.New()

	_, err := storage.CreateChat(ctx, chatID, "gemini-3-flash-preview", 0.8)
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	require.NoError(t, storage.AddMessageToChat(ctx, chatID, "hello", model.MessageSourceUser))
	assert.Equal(t, time.Hour, mr.TTL(getChatIDKey(chatID)))
	assert.Equal(t, time.Hour, mr.TTL(getChatMessagesKey(chatID)))

	mr.FastForward(50 * time.Minute)
	got, err := storage.GetChat(ctx, chatID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}
