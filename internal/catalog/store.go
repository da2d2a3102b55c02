// Package catalog holds the storefront core: the book sequence and cart of one session,
// with filtering, cart arithmetic, checkout and volume submission. It performs no I/O.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/iamvkosarev/stellar-archive/internal/validation"
)

var (
	ErrBookNotFound = errors.New("book not found")
)

const volumeIDPrefix = "custom"

// Store owns one session's catalog and cart. It is not safe for concurrent use;
// callers load it, run one operation and save its State.
type Store struct {
	books     []model.Book
	cart      []model.CartItem
	validator *validation.Validator
	newID     func(prefix string) (string, error)
	newCode   func() (string, error)
}

type Option func(*Store)

func WithIDGenerator(gen func(prefix string) (string, error)) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Store) {
		s.newCode = gen
	}
}

func WithValidator(v *validation.Validator) Option {
	return func(s *Store) {
		s.validator = v
	}
}

func NewStore(state model.StoreState, opts ...Option) *Store {
	s := &Store{
		books:   cloneBooks(state.Books),
		cart:    cloneCart(state.Cart),
		newID:   GenerateID,
		newCode: GenerateConfirmationCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	return s
}

func (s *Store) State() model.StoreState {
	return model.StoreState{
		Books: cloneBooks(s.books),
		Cart:  cloneCart(s.cart),
	}
}

// Snapshot returns a copy of the catalog safe to hand to the oracle.
func (s *Store) Snapshot() []model.Book {
	return cloneBooks(s.books)
}

// Filter returns books whose title or author contains term (case-insensitive) and whose
// category matches the selector, in catalog order.
func (s *Store) Filter(term string, selector model.Category) []model.Book {
	needle := strings.ToLower(term)
	result := make([]model.Book, 0, len(s.books))
	for _, book := range s.books {
		if selector != model.CategoryAll && book.Category != selector {
			continue
		}
		if !strings.Contains(strings.ToLower(book.Title), needle) &&
			!strings.Contains(strings.ToLower(book.Author), needle) {
			continue
		}
		result = append(result, book)
	}
	return result
}

func (s *Store) Book(id string) (model.Book, error) {
	for _, book := range s.books {
		if book.ID == id {
			return book, nil
		}
	}
	return model.Book{}, ErrBookNotFound
}

// AddVolume validates the draft, prices it by tier and prepends it to the catalog.
func (s *Store) AddVolume(draft model.VolumeDraft) (model.Book, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Author = strings.TrimSpace(draft.Author)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.CoverURL = strings.TrimSpace(draft.CoverURL)

	if err := s.validator.Validate(draft); err != nil {
		return model.Book{}, err
	}
	id, err := s.newID(volumeIDPrefix)
	if err != nil {
		return model.Book{}, fmt.Errorf("failed to generate volume id: %w", err)
	}
	book := model.Book{
		ID:                id,
		Title:             draft.Title,
		Author:            draft.Author,
		Price:             model.PriceFor(draft.IsCreatorOriginal),
		Description:       draft.Description,
		CoverURL:          draft.CoverURL,
		Category:          draft.Category,
		Rating:            model.MaxRating,
		IsCreatorOriginal: draft.IsCreatorOriginal,
		Pages:             draft.Pages,
		PublishedYear:     draft.PublishedYear,
	}
	s.books = append([]model.Book{book}, s.books...)
	return book, nil
}

// Add puts book into the cart, bumping the quantity if it is already there.
func (s *Store) Add(book model.Book) {
	for i := range s.cart {
		if s.cart[i].ID == book.ID {
			s.cart[i].Quantity++
			return
		}
	}
	s.cart = append(s.cart, model.CartItem{Book: book, Quantity: 1})
}

// Remove drops the cart entry with the given id and reports whether one existed.
func (s *Store) Remove(id string) bool {
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Cart() []model.CartItem {
	return cloneCart(s.cart)
}

func (s *Store) CartCount() int {
	return len(s.cart)
}

func (s *Store) Total() int {
	total := 0
	for _, item := range s.cart {
		total += item.Subtotal()
	}
	return total
}

// Checkout clears the cart and hands back a fresh confirmation code. No payment is
// verified, so the only failure is the system running out of entropy.
func (s *Store) Checkout(paymentURL string) (model.Receipt, error) {
	code, err := s.newCode()
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	receipt := model.Receipt{
		Code:       code,
		Total:      s.Total(),
		Items:      cloneCart(s.cart),
		PaymentURL: paymentURL,
	}
	s.cart = nil
	return receipt, nil
}

func cloneBooks(books []model.Book) []model.Book {
	if books == nil {
		return nil
	}
	return append(make([]model.Book, 0, len(books)), books...)
}

func cloneCart(cart []model.CartItem) []model.CartItem {
	if cart == nil {
		return nil
	}
	return append(make([]model.CartItem, 0, len(cart)), cart...)
}
