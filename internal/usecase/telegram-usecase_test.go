package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/iamvkosarev/stellar-archive/internal/logger"
	in_memory "github.com/iamvkosarev/stellar-archive/internal/storage/in-memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	text   string
	markup any
}

// fakeBot records outgoing messages instead of calling the Telegram API.
type fakeBot struct {
	mu       sync.Mutex
	sent     []sentMessage
	requests int
	rejected int
	updates  chan api.Update
	stopped  bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan api.Update)}
}

func (b *fakeBot) GetUpdatesChan(api.UpdateConfig) api.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *fakeBot) Send(c api.Chattable) (api.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := c.(api.MessageConfig); ok {
		if utf16Len(msg.Text) > maxMessageUnits {
			b.rejected++
			return api.Message{}, errors.New("Bad Request: message is too long")
		}
		b.sent = append(b.sent, sentMessage{text: msg.Text, markup: msg.ReplyMarkup})
	}
	return api.Message{}, nil
}

func (b *fakeBot) Request(api.Chattable) (*api.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests++
	return &api.APIResponse{Ok: true}, nil
}

func (b *fakeBot) messages() []sentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sentMessage(nil), b.sent...)
}

func (b *fakeBot) last(t *testing.T) sentMessage {
	t.Helper()
	sent := b.messages()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1]
}

type telegramFixture struct {
	bot      *fakeBot
	oracle   *gatedOracle
	telegram *TelegramUsecase
}

func newTelegramFixture(t *testing.T, cfg config.Telegram) *telegramFixture {
	t.Helper()
	log := logger.Discard()
	bot := newFakeBot()
	oracle := &gatedOracle{release: make(chan struct{}), reply: "Try The Silent Horizon."}

	telegram, err := NewTelegramUsecase(
		cfg, TelegramUsecaseDeps{
			Session: NewSessionUsecase(SessionUsecaseDeps{SessionStorage: in_memory.NewSessionStorage()}),
			Storefront: NewStorefrontUsecase(
				StorefrontUsecaseDeps{StoreStorage: in_memory.NewStoreStorage(), Logger: log},
				config.Checkout{PaymentURL: testPaymentURL, ArchiveLink: "https://stellar-archive.io/princewill-cosmas"},
			),
			AIChat: NewAIChatUsecase(
				AIChatUsecaseDeps{AIChatStorage: in_memory.NewAIChatStorage(), Oracle: oracle, Logger: log},
				config.Oracle{Model: "gemini-3-flash-preview", Temperature: 0.8},
			),
			Bot:    bot,
			Logger: log,
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, bot.requests)
	return &telegramFixture{bot: bot, oracle: oracle, telegram: telegram}
}

func (f *telegramFixture) command(t *testing.T, chatID int64, command, args string) sentMessage {
	t.Helper()
	require.NoError(t, f.telegram.handleCommand(context.Background(), chatID, command, args))
	return f.bot.last(t)
}

func TestTelegramStartAndArchive(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	assert.Equal(t, MessageCommandStart, f.command(t, 1, CommandStart, "").text)
	assert.Contains(t, f.command(t, 1, CommandArchive, "").text, "https://stellar-archive.io/princewill-cosmas")
	assert.Equal(t, MessageCommandUnknown, f.command(t, 1, "teleport", "").text)
}

func TestTelegramRejectsChatsOutsideAllowList(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{AllowedTelegramID: []int64{42}})

	assert.Equal(t, MessageUserNoAccess, f.command(t, 7, CommandCart, "").text)
	assert.Equal(t, MessageCartEmpty, f.command(t, 42, CommandCart, "").text)

	require.NoError(t, f.telegram.handleText(context.Background(), 7, "hello"))
	assert.Equal(t, MessageUserNoAccess, f.bot.last(t).text)
}

func TestTelegramCatalogAndSearch(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	text := f.command(t, 1, CommandCatalog, "philosophy").text
	assert.Contains(t, text, "Beyond the Void")
	assert.NotContains(t, text, "The Silent Horizon")

	text = f.command(t, 1, CommandSearch, "elena").text
	assert.Contains(t, text, "The Alchemist Path")

	assert.Equal(t, MessageCatalogEmpty, f.command(t, 1, CommandSearch, "nonexistent").text)

	reply := f.command(t, 1, CommandCatalog, "astrology")
	assert.Contains(t, reply.text, "Unknown sector")
	assert.IsType(t, api.InlineKeyboardMarkup{}, reply.markup)
}

func TestTelegramCategoryCallback(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	require.NoError(t, f.telegram.handleCallback(context.Background(), 1, callbackCategoryPrefix+"Science"))
	assert.Contains(t, f.bot.last(t).text, "Quantum Resonance")
}

func TestTelegramCartFlow(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	f.command(t, 1, CommandAdd, "glob-1")
	require.NoError(t, f.telegram.handleCallback(context.Background(), 1, callbackAddPrefix+"glob-1"))
	cart := f.bot.last(t).text
	assert.Contains(t, cart, "The Alchemist Path x2")
	assert.Contains(t, cart, "Total: ₦2,000")

	assert.Contains(t, f.command(t, 2, CommandCart, "").text, MessageCartEmpty)

	assert.Contains(t, f.command(t, 1, CommandAdd, "missing").text, `No volume "missing"`)
	assert.Contains(t, f.command(t, 1, CommandRemove, "pc-1").text, "is not in your queue")
	assert.Contains(t, f.command(t, 1, CommandRemove, "glob-1").text, MessageCartEmpty)
}

func TestTelegramBookDetail(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	reply := f.command(t, 1, CommandBook, "pc-1")
	assert.Contains(t, reply.text, "The Silent Horizon")
	assert.Contains(t, reply.text, "https://stellar-archive.io/vault/pc-1")
	markup, ok := reply.markup.(api.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, callbackAddPrefix+"pc-1", *markup.InlineKeyboard[0][0].CallbackData)

	assert.Equal(t, MessageBookIDRequired, f.command(t, 1, CommandBook, "").text)
}

func TestTelegramCheckout(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	assert.Equal(t, MessageCheckoutEmptyCart, f.command(t, 1, CommandCheckout, "").text)

	f.command(t, 1, CommandAdd, "pc-1")
	reply := f.command(t, 1, CommandCheckout, "")
	assert.Regexp(t, `STELLAR-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}`, reply.text)
	assert.Contains(t, reply.text, "₦5,000")

	markup, ok := reply.markup.(api.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, testPaymentURL, *markup.InlineKeyboard[0][0].URL)

	assert.Equal(t, MessageCartEmpty, f.command(t, 1, CommandCart, "").text)
}

func TestTelegramNewVolume(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	reply := f.command(
		t, 1, CommandNewVolume, "Echoes of the Delta | Ada Eze | Folklore | https://example.com/e.jpg | River tales | no",
	)
	assert.Contains(t, reply.text, `"Echoes of the Delta" now lives in the archive for ₦1,000`)
	assert.Contains(t, f.command(t, 1, CommandSearch, "echoes").text, "Echoes of the Delta")

	reply = f.command(t, 1, CommandNewVolume, "Echoes | Ada | Astrology | https://example.com/e.jpg")
	assert.True(t, strings.HasPrefix(reply.text, "Cannot do that"))

	reply = f.command(t, 1, CommandNewVolume, "Untitled | Ada | Folklore")
	assert.Contains(t, reply.text, "cover_url")
}

func TestTelegramOracleWhilePending(t *testing.T) {
	ctx := context.Background()
	f := newTelegramFixture(t, config.Telegram{})

	require.NoError(t, f.telegram.handleText(ctx, 1, "something about silence"))
	require.NoError(t, f.telegram.handleText(ctx, 1, "are you there?"))
	assert.Equal(t, MessageOracleConsulting, f.bot.last(t).text)

	close(f.oracle.release)
	f.telegram.AIChat.Wait()

	assert.Equal(t, "Try The Silent Horizon.", f.bot.last(t).text)
	assert.Equal(t, []string{"something about silence"}, f.oracle.queries)
}

func TestTelegramRunStopsOnContextCancel(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.telegram.Run(ctx)
	}()
	cancel()

	require.NoError(t, <-done)
	f.bot.mu.Lock()
	defer f.bot.mu.Unlock()
	assert.True(t, f.bot.stopped)
}

func assertWithinLimit(t *testing.T, sent []sentMessage) {
	t.Helper()
	for _, msg := range sent {
		assert.LessOrEqual(t, utf16Len(msg.text), maxMessageUnits)
	}
}

func TestTelegramSplitsLongCatalog(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	for i := 0; i < 40; i++ {
		f.command(
			t, 1, CommandNewVolume,
			fmt.Sprintf("Chronicles of the Outer Rim, Volume %03d | Ada Eze | Folklore | https://example.com/%d.jpg", i, i),
		)
	}
	before := len(f.bot.messages())
	require.NoError(t, f.telegram.handleCommand(context.Background(), 1, CommandCatalog, ""))

	sent := f.bot.messages()[before:]
	assert.Zero(t, f.bot.rejected)
	assert.Greater(t, len(sent), 1)
	assertWithinLimit(t, sent)

	var joined strings.Builder
	for _, msg := range sent {
		joined.WriteString(msg.text)
	}
	for i := 0; i < 40; i++ {
		assert.Contains(t, joined.String(), fmt.Sprintf("Volume %03d", i))
	}
	assert.Contains(t, joined.String(), "The Silent Horizon")
}

func TestTelegramSplitsLongOracleReply(t *testing.T) {
	ctx := context.Background()
	f := newTelegramFixture(t, config.Telegram{})
	f.oracle.reply = strings.Repeat("The stars whisper of volumes unseen. 🌌\n", 200) + strings.Repeat("✦", 5000)
	close(f.oracle.release)

	require.NoError(t, f.telegram.handleText(ctx, 1, "tell me everything"))
	f.telegram.AIChat.Wait()

	sent := f.bot.messages()
	assert.Zero(t, f.bot.rejected)
	assert.GreaterOrEqual(t, len(sent), 3)
	assertWithinLimit(t, sent)

	var joined strings.Builder
	for _, msg := range sent {
		joined.WriteString(msg.text)
	}
	assert.Equal(t, 200, strings.Count(joined.String(), "🌌"))
	assert.Equal(t, 5000, strings.Count(joined.String(), "✦"))
}

func TestTelegramKeyboardGoesOnLastPart(t *testing.T) {
	f := newTelegramFixture(t, config.Telegram{})

	f.telegram.sendWithMarkup(1, strings.Repeat("line of the archive\n", 500), addToCartKeyboard("pc-1"))

	sent := f.bot.messages()
	require.Greater(t, len(sent), 1)
	for _, msg := range sent[:len(sent)-1] {
		assert.Nil(t, msg.markup)
	}
	assert.IsType(t, api.InlineKeyboardMarkup{}, sent[len(sent)-1].markup)
}
