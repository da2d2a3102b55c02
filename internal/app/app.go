package app

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/stellar-archive/config"
	in_memory "github.com/iamvkosarev/stellar-archive/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/stellar-archive/internal/storage/key-value"
	"github.com/iamvkosarev/stellar-archive/internal/usecase"
	openai_tools "github.com/iamvkosarev/stellar-archive/pkg/openai-tools"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Storages struct {
	Session usecase.SessionStorage
	Store   usecase.StoreStorage
	AIChat  usecase.AIChatStorage

	rdb *redis.Client
}

// NewStorages builds the storages of the configured backend.
func NewStorages(ctx context.Context, cfg *config.Config) (*Storages, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return &Storages{
			Session: in_memory.NewSessionStorage(),
			Store:   in_memory.NewStoreStorage(),
			AIChat:  in_memory.NewAIChatStorage(),
		}, nil
	case config.StorageBackendKeyValue:
		rdb := redis.NewClient(
			&redis.Options{
				Addr:     cfg.Redis.Endpoint,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			},
		)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Endpoint, err)
		}
		ttl := cfg.Storage.SessionTTL
		return &Storages{
			Session: key_value.NewSessionStorage(rdb, ttl),
			Store:   key_value.NewStoreStorage(rdb, ttl),
			AIChat:  key_value.NewAIChatStorage(rdb, ttl),
			rdb:     rdb,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func (s *Storages) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func NewOracle(cfg config.Oracle, log logrus.FieldLogger) *usecase.OracleUsecase {
	return usecase.NewOracleUsecase(
		cfg, usecase.OracleUsecaseDeps{
			Logger:      log,
			CountTokens: openai_tools.CountTokens,
		},
	)
}

// Run serves the Telegram bot until ctx is done.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	log.WithField("account", bot.Self.UserName).Info("authorized on telegram")

	storages, err := NewStorages(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.WithError(err).Warn("failed to close storages")
		}
	}()
	log.WithField("backend", cfg.Storage.Backend).Info("storages ready")

	telegramUsecase, err := NewTelegramUsecase(cfg, storages, bot, log)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}
	return telegramUsecase.Run(ctx)
}

func NewTelegramUsecase(
	cfg *config.Config, storages *Storages, bot usecase.TelegramBot, log logrus.FieldLogger,
) (*usecase.TelegramUsecase, error) {
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: storages.Session,
		},
	)

	storefrontUsecase := usecase.NewStorefrontUsecase(
		usecase.StorefrontUsecaseDeps{
			StoreStorage: storages.Store,
			Logger:       log.WithField("component", "storefront"),
		}, cfg.Checkout,
	)

	aiChatUsecase := usecase.NewAIChatUsecase(
		usecase.AIChatUsecaseDeps{
			AIChatStorage: storages.AIChat,
			Oracle:        NewOracle(cfg.Oracle, log.WithField("component", "oracle")),
			Logger:        log.WithField("component", "ai-chat"),
		}, cfg.Oracle,
	)

	return usecase.NewTelegramUsecase(
		cfg.Telegram, usecase.TelegramUsecaseDeps{
			Session:    sessionUsecase,
			Storefront: storefrontUsecase,
			AIChat:     aiChatUsecase,
			Bot:        bot,
			Logger:     log.WithField("component", "telegram"),
		},
	)
}
