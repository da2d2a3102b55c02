package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/iamvkosarev/stellar-archive/internal/catalog"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/iamvkosarev/stellar-archive/internal/validation"
	"github.com/sirupsen/logrus"
)

const (
	MessageServerError       = "Something went wrong in the archive. Try later"
	MessageUserNoAccess      = "You are not allowed to use this archive"
	MessageCommandStart      = "Welcome to Stellar Archive, the vault of Princewill Cosmas. Browse with /catalog, or just tell me what you are in the mood for and the oracle will guide you."
	MessageCommandHelp       = "/catalog [category] - browse the archive\n/search <term> - find by title or author\n/categories - pick a sector\n/book <id> - volume details\n/add <id>, /remove <id> - manage your queue\n/cart - show your queue\n/checkout - secure your volumes\n/newvolume title | author | category | coverUrl | description | original(yes/no) - publish a volume\n/archive - share the archive\n\nAny other text goes to the oracle."
	MessageCommandUnknown    = "I don't know that command"
	MessageOracleConsulting  = "The oracle is still consulting the stars…"
	MessageSelectCategory    = "Choose a sector of the archive"
	MessageUnknownCategoryF  = "Unknown sector %q. Choose one below"
	MessageBookNotFoundF     = "No volume %q in the archive"
	MessageBookIDRequired    = "Send the volume id, e.g. /book pc-1"
	MessageRemovedF          = "%q left your queue.\n\n%s"
	MessageNotInCartF        = "%q is not in your queue.\n\n%s"
	MessageVolumeAddedF      = "%q now lives in the archive for %s. See /book %s"
	MessageArchiveLinkF      = "Share the archive: %s"
	MessageInvalidRequestF   = "Cannot do that: %s"
	MessageCheckoutEmptyCart = MessageCartEmpty

	CommandStart      = "start"
	CommandHelp       = "help"
	CommandCatalog    = "catalog"
	CommandSearch     = "search"
	CommandCategories = "categories"
	CommandBook       = "book"
	CommandAdd        = "add"
	CommandRemove     = "remove"
	CommandCart       = "cart"
	CommandCheckout   = "checkout"
	CommandNewVolume  = "newvolume"
	CommandArchive    = "archive"
)

// TelegramBot is the part of *api.BotAPI the front-end drives.
type TelegramBot interface {
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	StopReceivingUpdates()
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
}

type TelegramUsecaseDeps struct {
	Session    *SessionUsecase
	Storefront *StorefrontUsecase
	AIChat     *AIChatUsecase
	Bot        TelegramBot
	Logger     logrus.FieldLogger
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	allowedUsers map[int64]struct{}
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	allowedUsers := make(map[int64]struct{}, len(cfg.AllowedTelegramID))
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{Command: CommandCatalog, Description: "Browse the archive"},
				{Command: CommandSearch, Description: "Search by title or author"},
				{Command: CommandCategories, Description: "Pick a sector"},
				{Command: CommandCart, Description: "Show your queue"},
				{Command: CommandCheckout, Description: "Secure your volumes"},
				{Command: CommandNewVolume, Description: "Publish a volume"},
				{Command: CommandArchive, Description: "Share the archive"},
				{Command: CommandHelp, Description: "Get help"},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		allowedUsers:        allowedUsers,
	}, nil
}

// Run handles updates until ctx is done, then waits for pending oracle replies.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = t.cfg.UpdateTimeout

	updates := t.Bot.GetUpdatesChan(u)
	defer t.AIChat.Wait()

	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *TelegramUsecase) handleUpdate(ctx context.Context, update api.Update) {
	if update.Message != nil {
		chatID := update.Message.Chat.ID
		var err error
		if update.Message.IsCommand() {
			err = t.handleCommand(ctx, chatID, update.Message.Command(), update.Message.CommandArguments())
		} else {
			err = t.handleText(ctx, chatID, update.Message.Text)
		}
		if err != nil {
			t.Logger.WithError(err).WithField("chat", chatID).Error("failed to handle message")
		}
	}
	if update.CallbackQuery != nil {
		chatID := update.CallbackQuery.Message.Chat.ID
		callback := api.NewCallback(update.CallbackQuery.ID, "")
		if _, err := t.Bot.Request(callback); err != nil {
			t.Logger.WithError(err).WithField("chat", chatID).Warn("failed to answer callback query")
		}
		if err := t.handleCallback(ctx, chatID, update.CallbackQuery.Data); err != nil {
			t.Logger.WithError(err).WithField("chat", chatID).Error("failed to handle callback query")
		}
	}
}

func (t *TelegramUsecase) handleCommand(ctx context.Context, chatID int64, command, args string) error {
	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(chatID, MessageUserNoAccess)
		return nil
	}
	args = strings.TrimSpace(args)

	switch command {
	case CommandStart:
		t.sendMessageAndHandleErr(chatID, MessageCommandStart)
	case CommandHelp:
		t.sendMessageAndHandleErr(chatID, MessageCommandHelp)
	case CommandCategories:
		t.sendWithMarkup(chatID, MessageSelectCategory, categoriesKeyboard())
	case CommandArchive:
		t.sendMessageAndHandleErr(chatID, fmt.Sprintf(MessageArchiveLinkF, t.Storefront.ArchiveLink()))
	case CommandCatalog:
		selector, ok := model.ParseCategory(args)
		if !ok {
			t.sendWithMarkup(chatID, fmt.Sprintf(MessageUnknownCategoryF, args), categoriesKeyboard())
			return nil
		}
		return t.showCatalog(ctx, chatID, "", selector)
	case CommandSearch:
		return t.showCatalog(ctx, chatID, args, model.CategoryAll)
	case CommandBook:
		return t.showBook(ctx, chatID, args)
	case CommandAdd:
		return t.addToCart(ctx, chatID, args)
	case CommandRemove:
		return t.removeFromCart(ctx, chatID, args)
	case CommandCart:
		return t.showCart(ctx, chatID)
	case CommandCheckout:
		return t.checkout(ctx, chatID)
	case CommandNewVolume:
		return t.addVolume(ctx, chatID, args)
	default:
		t.sendMessageAndHandleErr(chatID, MessageCommandUnknown)
	}
	return nil
}

func (t *TelegramUsecase) handleCallback(ctx context.Context, chatID int64, data string) error {
	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(chatID, MessageUserNoAccess)
		return nil
	}
	switch {
	case strings.HasPrefix(data, callbackCategoryPrefix):
		selector, ok := model.ParseCategory(strings.TrimPrefix(data, callbackCategoryPrefix))
		if !ok {
			t.sendWithMarkup(chatID, MessageSelectCategory, categoriesKeyboard())
			return nil
		}
		return t.showCatalog(ctx, chatID, "", selector)
	case strings.HasPrefix(data, callbackAddPrefix):
		return t.addToCart(ctx, chatID, strings.TrimPrefix(data, callbackAddPrefix))
	}
	t.sendMessageAndHandleErr(chatID, MessageCommandUnknown)
	return nil
}

// handleText sends free text to the oracle. The reply arrives later as its own message.
func (t *TelegramUsecase) handleText(ctx context.Context, chatID int64, text string) error {
	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(chatID, MessageUserNoAccess)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		t.sendMessageAndHandleErr(chatID, MessageServerError)
		return err
	}
	snapshot, err := t.Storefront.Snapshot(ctx, session.SessionID)
	if err != nil {
		t.sendMessageAndHandleErr(chatID, MessageServerError)
		return err
	}

	err = t.AIChat.Ask(
		ctx, session.SessionID, text, snapshot, func(reply string) {
			t.sendMessageAndHandleErr(chatID, reply)
		},
	)
	switch {
	case errors.Is(err, ErrRequestInFlight):
		t.sendMessageAndHandleErr(chatID, MessageOracleConsulting)
		return nil
	case err != nil:
		return t.replyToError(chatID, err)
	}

	if _, err = t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
		t.Logger.WithError(err).WithField("chat", chatID).Warn("failed to send chat action")
	}
	return nil
}

func (t *TelegramUsecase) showCatalog(ctx context.Context, chatID int64, term string, selector model.Category) error {
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	books, err := t.Storefront.Filter(ctx, session.SessionID, term, selector)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	t.sendMessageAndHandleErr(chatID, renderCatalog(books, selector, term))
	return nil
}

func (t *TelegramUsecase) showBook(ctx context.Context, chatID int64, bookID string) error {
	if bookID == "" {
		t.sendMessageAndHandleErr(chatID, MessageBookIDRequired)
		return nil
	}
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	book, err := t.Storefront.Book(ctx, session.SessionID, bookID)
	if err != nil {
		return t.replyToBookError(chatID, bookID, err)
	}
	t.sendWithMarkup(chatID, renderBook(book), addToCartKeyboard(book.ID))
	return nil
}

func (t *TelegramUsecase) addToCart(ctx context.Context, chatID int64, bookID string) error {
	if bookID == "" {
		t.sendMessageAndHandleErr(chatID, MessageBookIDRequired)
		return nil
	}
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	summary, err := t.Storefront.AddToCart(ctx, session.SessionID, bookID)
	if err != nil {
		return t.replyToBookError(chatID, bookID, err)
	}
	t.sendMessageAndHandleErr(chatID, renderCart(summary))
	return nil
}

func (t *TelegramUsecase) removeFromCart(ctx context.Context, chatID int64, bookID string) error {
	if bookID == "" {
		t.sendMessageAndHandleErr(chatID, MessageBookIDRequired)
		return nil
	}
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	removed, summary, err := t.Storefront.RemoveFromCart(ctx, session.SessionID, bookID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	format := MessageRemovedF
	if !removed {
		format = MessageNotInCartF
	}
	t.sendMessageAndHandleErr(chatID, fmt.Sprintf(format, bookID, renderCart(summary)))
	return nil
}

func (t *TelegramUsecase) showCart(ctx context.Context, chatID int64) error {
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	summary, err := t.Storefront.Cart(ctx, session.SessionID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	t.sendMessageAndHandleErr(chatID, renderCart(summary))
	return nil
}

func (t *TelegramUsecase) checkout(ctx context.Context, chatID int64) error {
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	summary, err := t.Storefront.Cart(ctx, session.SessionID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	if len(summary.Items) == 0 {
		t.sendMessageAndHandleErr(chatID, MessageCheckoutEmptyCart)
		return nil
	}
	receipt, err := t.Storefront.Checkout(ctx, session.SessionID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	t.sendWithMarkup(chatID, renderReceipt(receipt), paymentKeyboard(receipt.PaymentURL))
	return nil
}

func (t *TelegramUsecase) addVolume(ctx context.Context, chatID int64, args string) error {
	draft, err := parseVolumeDraft(args)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	session, err := t.Session.GetSessionForTelegramChat(ctx, chatID)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	book, err := t.Storefront.AddVolume(ctx, session.SessionID, draft)
	if err != nil {
		return t.replyToError(chatID, err)
	}
	t.sendMessageAndHandleErr(
		chatID, fmt.Sprintf(MessageVolumeAddedF, book.Title, model.FormatPrice(book.Price), book.ID),
	)
	return nil
}

func (t *TelegramUsecase) replyToBookError(chatID int64, bookID string, err error) error {
	if errors.Is(err, catalog.ErrBookNotFound) {
		t.sendMessageAndHandleErr(chatID, fmt.Sprintf(MessageBookNotFoundF, bookID))
		return nil
	}
	return t.replyToError(chatID, err)
}

// replyToError shows validation problems to the user and reports everything else.
func (t *TelegramUsecase) replyToError(chatID int64, err error) error {
	if errors.Is(err, validation.ErrValidation) {
		t.sendMessageAndHandleErr(chatID, fmt.Sprintf(MessageInvalidRequestF, err.Error()))
		return nil
	}
	t.sendMessageAndHandleErr(chatID, MessageServerError)
	return err
}

func (t *TelegramUsecase) isAllowed(chatID int64) bool {
	if len(t.allowedUsers) == 0 {
		return true
	}
	_, ok := t.allowedUsers[chatID]
	return ok
}

// sendWithMarkup sends text split to Telegram's size limit; the keyboard goes on the last part.
func (t *TelegramUsecase) sendWithMarkup(chatID int64, text string, markup api.InlineKeyboardMarkup) {
	chunks := splitMessage(text, maxMessageUnits)
	for i, chunk := range chunks {
		msg := api.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			msg.ReplyMarkup = markup
		}
		t.send(chatID, msg)
	}
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) {
	for _, chunk := range splitMessage(message, maxMessageUnits) {
		t.send(chatID, api.NewMessage(chatID, chunk))
	}
}

func (t *TelegramUsecase) send(chatID int64, msg api.MessageConfig) {
	if _, err := t.Bot.Send(msg); err != nil {
		t.Logger.WithError(err).WithField("chat", chatID).Error("failed to send message to bot")
	}
}
