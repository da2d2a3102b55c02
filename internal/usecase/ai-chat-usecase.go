package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/iamvkosarev/stellar-archive/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

var (
	ErrRequestInFlight = errors.New("recommendation request already in flight")
)

// settledTaskRetention is how long a settled request stays visible through State.
const settledTaskRetention = time.Hour

type AIChatStorage interface {
	GetChat(ctx context.Context, chatID uuid.UUID) (model.AIChat, error)
	CreateChat(ctx context.Context, chatID uuid.UUID, chatModel string, temperature float32) (model.AIChat, error)
	AddMessageToChat(ctx context.Context, chatID uuid.UUID, messageText string, messageSource model.MessageSource) error
}

type Recommender interface {
	GetRecommendation(ctx context.Context, query string, snapshot []model.Book) string
}

type AIChatUsecaseDeps struct {
	AIChatStorage AIChatStorage
	Oracle        Recommender
	Logger        logrus.FieldLogger
}

// AIChatUsecase keeps the oracle conversation of each session and allows at most one
// outstanding recommendation request per session.
type AIChatUsecase struct {
	AIChatUsecaseDeps
	cfg config.Oracle

	mu    sync.Mutex
	tasks map[uuid.UUID]task
	wg    conc.WaitGroup
	now   func() time.Time
}

type task struct {
	state     model.TaskState
	settledAt time.Time
}

func NewAIChatUsecase(deps AIChatUsecaseDeps, cfg config.Oracle) *AIChatUsecase {
	return &AIChatUsecase{
		AIChatUsecaseDeps: deps,
		cfg:               cfg,
		tasks:             make(map[uuid.UUID]task),
		now:               time.Now,
	}
}

// Ask records query and starts a recommendation in the background. onSettled receives
// the reply once it has been stored. Returns ErrRequestInFlight while a previous
// request of the same chat is pending.
func (a *AIChatUsecase) Ask(
	ctx context.Context,
	chatID uuid.UUID,
	query string,
	snapshot []model.Book,
	onSettled func(reply string),
) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return validation.Newf("query is required")
	}

	previous, ok := a.begin(chatID)
	if !ok {
		return ErrRequestInFlight
	}

	if err := a.ensureChat(ctx, chatID); err != nil {
		a.restore(chatID, previous)
		return err
	}
	if err := a.AIChatStorage.AddMessageToChat(ctx, chatID, query, model.MessageSourceUser); err != nil {
		a.restore(chatID, previous)
		return fmt.Errorf("failed to add message to ai chat: %w", err)
	}

	// The request outlives the caller's update handling; only its own timeout bounds it.
	taskCtx := context.WithoutCancel(ctx)
	a.wg.Go(
		func() {
			reply := a.Oracle.GetRecommendation(taskCtx, query, snapshot)
			if strings.TrimSpace(reply) == "" {
				reply = OracleSilentMessage
			}
			if err := a.AIChatStorage.AddMessageToChat(
				taskCtx, chatID, reply, model.MessageSourceAssistant,
			); err != nil {
				a.Logger.WithError(err).WithField("chat", chatID).Error("failed to add answer to ai chat")
			}
			a.settle(chatID)
			if onSettled != nil {
				onSettled(reply)
			}
		},
	)
	return nil
}

func (a *AIChatUsecase) State(chatID uuid.UUID) model.TaskState {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tasks[chatID]
	if !ok || a.expired(t) {
		return model.TaskStateIdle
	}
	return t.state
}

func (a *AIChatUsecase) History(ctx context.Context, chatID uuid.UUID) ([]model.Message, error) {
	chat, err := a.AIChatStorage.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, model.ErrChatDoesNotExist) {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("failed to get ai chat: %w", err)
	}
	return chat.Messages, nil
}

// Wait blocks until every started request has settled.
func (a *AIChatUsecase) Wait() {
	a.wg.Wait()
}

// begin marks the chat Pending and drops settled tasks past their retention.
func (a *AIChatUsecase) begin(chatID uuid.UUID) (task, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	previous, ok := a.tasks[chatID]
	if ok && previous.state == model.TaskStatePending {
		return previous, false
	}
	for id, t := range a.tasks {
		if a.expired(t) {
			delete(a.tasks, id)
		}
	}
	a.tasks[chatID] = task{state: model.TaskStatePending}
	return previous, true
}

func (a *AIChatUsecase) restore(chatID uuid.UUID, previous task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if previous.state == model.TaskStateIdle {
		delete(a.tasks, chatID)
		return
	}
	a.tasks[chatID] = previous
}

func (a *AIChatUsecase) settle(chatID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tasks[chatID] = task{state: model.TaskStateSettled, settledAt: a.now()}
}

func (a *AIChatUsecase) expired(t task) bool {
	return t.state == model.TaskStateSettled && a.now().Sub(t.settledAt) > settledTaskRetention
}

func (a *AIChatUsecase) ensureChat(ctx context.Context, chatID uuid.UUID) error {
	_, err := a.AIChatStorage.GetChat(ctx, chatID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrChatDoesNotExist) {
		return fmt.Errorf("failed to get ai chat: %w", err)
	}
	if _, err = a.AIChatStorage.CreateChat(ctx, chatID, a.cfg.Model, a.cfg.Temperature); err != nil {
		return fmt.Errorf("failed to create ai chat: %w", err)
	}
	return nil
}
