package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/iamvkosarev/stellar-archive/internal/catalog"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/iamvkosarev/stellar-archive/internal/validation"
	"github.com/sirupsen/logrus"
)

type StoreStorage interface {
	GetStore(ctx context.Context, sessionID uuid.UUID) (model.StoreState, error)
	SaveStore(ctx context.Context, sessionID uuid.UUID, state model.StoreState) error
}

type StorefrontUsecaseDeps struct {
	StoreStorage StoreStorage
	Validator    *validation.Validator
	Logger       logrus.FieldLogger
}

// StorefrontUsecase runs catalog store operations against a session's saved state.
// A session without saved state starts from the seed catalog.
type StorefrontUsecase struct {
	StorefrontUsecaseDeps
	cfg config.Checkout

	// Serializes load-modify-save so concurrent updates do not drop cart changes.
	mu sync.Mutex
}

type CartSummary struct {
	Items []model.CartItem
	Total int
}

func NewStorefrontUsecase(deps StorefrontUsecaseDeps, cfg config.Checkout) *StorefrontUsecase {
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	return &StorefrontUsecase{
		StorefrontUsecaseDeps: deps,
		cfg:                   cfg,
	}
}

func (s *StorefrontUsecase) Filter(
	ctx context.Context, sessionID uuid.UUID, term string, selector model.Category,
) ([]model.Book, error) {
	var books []model.Book
	err := s.view(ctx, sessionID, func(store *catalog.Store) error {
		books = store.Filter(term, selector)
		return nil
	})
	return books, err
}

func (s *StorefrontUsecase) Book(ctx context.Context, sessionID uuid.UUID, bookID string) (model.Book, error) {
	var book model.Book
	err := s.view(ctx, sessionID, func(store *catalog.Store) error {
		var err error
		book, err = store.Book(bookID)
		return err
	})
	return book, err
}

func (s *StorefrontUsecase) Snapshot(ctx context.Context, sessionID uuid.UUID) ([]model.Book, error) {
	var books []model.Book
	err := s.view(ctx, sessionID, func(store *catalog.Store) error {
		books = store.Snapshot()
		return nil
	})
	return books, err
}

func (s *StorefrontUsecase) Cart(ctx context.Context, sessionID uuid.UUID) (CartSummary, error) {
	var summary CartSummary
	err := s.view(ctx, sessionID, func(store *catalog.Store) error {
		summary = summarize(store)
		return nil
	})
	return summary, err
}

// AddToCart adds the catalog book with bookID and returns the resulting cart.
func (s *StorefrontUsecase) AddToCart(ctx context.Context, sessionID uuid.UUID, bookID string) (CartSummary, error) {
	var summary CartSummary
	err := s.update(ctx, sessionID, func(store *catalog.Store) error {
		book, err := store.Book(bookID)
		if err != nil {
			return err
		}
		store.Add(book)
		summary = summarize(store)
		return nil
	})
	return summary, err
}

func (s *StorefrontUsecase) RemoveFromCart(
	ctx context.Context, sessionID uuid.UUID, bookID string,
) (bool, CartSummary, error) {
	var (
		removed bool
		summary CartSummary
	)
	err := s.update(ctx, sessionID, func(store *catalog.Store) error {
		removed = store.Remove(bookID)
		summary = summarize(store)
		return nil
	})
	return removed, summary, err
}

func (s *StorefrontUsecase) Checkout(ctx context.Context, sessionID uuid.UUID) (model.Receipt, error) {
	var receipt model.Receipt
	err := s.update(ctx, sessionID, func(store *catalog.Store) error {
		var err error
		receipt, err = store.Checkout(s.cfg.PaymentURL)
		return err
	})
	if err == nil {
		s.Logger.WithFields(logrus.Fields{
			"session": sessionID,
			"total":   receipt.Total,
			"items":   len(receipt.Items),
		}).Info("checkout completed")
	}
	return receipt, err
}

func (s *StorefrontUsecase) AddVolume(
	ctx context.Context, sessionID uuid.UUID, draft model.VolumeDraft,
) (model.Book, error) {
	var book model.Book
	err := s.update(ctx, sessionID, func(store *catalog.Store) error {
		var err error
		book, err = store.AddVolume(draft)
		return err
	})
	if err == nil {
		s.Logger.WithFields(logrus.Fields{
			"session": sessionID,
			"volume":  book.ID,
		}).Info("volume added to catalog")
	}
	return book, err
}

func (s *StorefrontUsecase) ArchiveLink() string {
	return s.cfg.ArchiveLink
}

func (s *StorefrontUsecase) view(ctx context.Context, sessionID uuid.UUID, fn func(*catalog.Store) error) error {
	store, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	return fn(store)
}

// update saves the store only when fn succeeds, so a rejected operation leaves the
// session untouched.
func (s *StorefrontUsecase) update(ctx context.Context, sessionID uuid.UUID, fn func(*catalog.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err = fn(store); err != nil {
		return err
	}
	if err = s.StoreStorage.SaveStore(ctx, sessionID, store.State()); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

func (s *StorefrontUsecase) load(ctx context.Context, sessionID uuid.UUID) (*catalog.Store, error) {
	state, err := s.StoreStorage.GetStore(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, model.ErrStoreDoesNotExist) {
			return nil, fmt.Errorf("failed to get store: %w", err)
		}
		state = model.StoreState{Books: catalog.SeedBooks()}
	}
	return catalog.NewStore(state, catalog.WithValidator(s.Validator)), nil
}

func summarize(store *catalog.Store) CartSummary {
	return CartSummary{
		Items: store.Cart(),
		Total: store.Total(),
	}
}
