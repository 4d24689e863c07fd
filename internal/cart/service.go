package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

// ErrNotFound indicates the requested cart item could not be located.
var ErrNotFound = errors.New("cart item not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoDigitalVersion is returned when a digital line is requested for a
// book that has no digital edition.
var ErrNoDigitalVersion = errors.New("book has no digital version")

// ErrInsufficientInventory is returned when a physical line exceeds the
// available inventory.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// Querier captures the database methods required by the cart service.
type Querier interface {
	GetBookByID(ctx context.Context, id pgtype.UUID) (dbgen.Book, error)
	FindCartItem(ctx context.Context, arg dbgen.FindCartItemParams) (dbgen.CartItem, error)
	CreateCartItem(ctx context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error)
	GetCartItemByID(ctx context.Context, id pgtype.UUID) (dbgen.CartItem, error)
	UpdateCartItemQty(ctx context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) error
	ListCartItemsForUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.CartItem, error)
	ClearCartForUser(ctx context.Context, userID pgtype.UUID) error
	GetShippingSetting(ctx context.Context, currency dbgen.CurrencyCode) (dbgen.ShippingSetting, error)
}

// Service encapsulates cart domain operations. The cart is user scoped; one
// line exists per (book, format) pair and re-adding merges quantities.
type Service struct {
	Q   Querier
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Line is a cart line enriched with the current book snapshot.
type Line struct {
	Item dbgen.CartItem
	Book dbgen.Book
}

// AddItem inserts a cart line or merges the quantity into an existing line
// for the same book and format.
func (s *Service) AddItem(ctx context.Context, userID, bookID string, format dbgen.BookFormat, qty int, currency dbgen.CurrencyCode) (dbgen.CartItem, error) {
	if s == nil || s.Q == nil {
		return dbgen.CartItem{}, errors.New("cart service not configured")
	}
	if qty <= 0 {
		return dbgen.CartItem{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	if !format.Valid() {
		return dbgen.CartItem{}, fmt.Errorf("unknown format %q: %w", format, ErrInvalidInput)
	}
	if !currency.Valid() {
		return dbgen.CartItem{}, fmt.Errorf("unknown currency %q: %w", currency, ErrInvalidInput)
	}
	uID, err := toUUID(userID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse user id: %w", err)
	}
	bID, err := toUUID(bookID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse book id: %w", err)
	}

	book, err := s.Q.GetBookByID(ctx, bID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, ErrNotFound
		}
		return dbgen.CartItem{}, err
	}
	if !book.Active {
		return dbgen.CartItem{}, ErrNotFound
	}
	if format == dbgen.BookFormatDigital && !book.HasDigital {
		return dbgen.CartItem{}, ErrNoDigitalVersion
	}

	existing, err := s.Q.FindCartItem(ctx, dbgen.FindCartItemParams{UserID: uID, BookID: bID, Format: format})
	if err == nil {
		newQty := existing.Qty + int32(qty)
		if err := s.checkInventory(book, format, newQty); err != nil {
			return dbgen.CartItem{}, err
		}
		return s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: existing.ID, Qty: newQty})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.CartItem{}, err
	}

	if err := s.checkInventory(book, format, int32(qty)); err != nil {
		return dbgen.CartItem{}, err
	}
	return s.Q.CreateCartItem(ctx, dbgen.CreateCartItemParams{
		UserID:   uID,
		BookID:   bID,
		Format:   format,
		Qty:      int32(qty),
		Currency: currency,
	})
}

// UpdateQty sets the quantity for a cart line owned by the user.
func (s *Service) UpdateQty(ctx context.Context, userID, itemID string, qty int) (dbgen.CartItem, error) {
	if s == nil || s.Q == nil {
		return dbgen.CartItem{}, errors.New("cart service not configured")
	}
	if qty <= 0 {
		return dbgen.CartItem{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	uID, err := toUUID(userID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse user id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("parse item id: %w", err)
	}
	item, err := s.Q.GetCartItemByID(ctx, iID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, ErrNotFound
		}
		return dbgen.CartItem{}, err
	}
	if item.UserID != uID {
		return dbgen.CartItem{}, ErrNotFound
	}
	book, err := s.Q.GetBookByID(ctx, item.BookID)
	if err != nil {
		return dbgen.CartItem{}, err
	}
	if err := s.checkInventory(book, item.Format, int32(qty)); err != nil {
		return dbgen.CartItem{}, err
	}
	return s.Q.UpdateCartItemQty(ctx, dbgen.UpdateCartItemQtyParams{ID: item.ID, Qty: int32(qty)})
}

// RemoveItem deletes a cart line owned by the user.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	uID, err := toUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	iID, err := toUUID(itemID)
	if err != nil {
		return fmt.Errorf("parse item id: %w", err)
	}
	return s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{ID: iID, UserID: uID})
}

// List returns the user's cart lines joined with the current book records.
func (s *Service) List(ctx context.Context, userID string) ([]Line, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("cart service not configured")
	}
	uID, err := toUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	items, err := s.Q.ListCartItemsForUser(ctx, uID)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		book, err := s.Q.GetBookByID(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Item: item, Book: book})
	}
	return lines, nil
}

// Clear removes every cart line for the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	uID, err := toUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	return s.Q.ClearCartForUser(ctx, uID)
}

func (s *Service) checkInventory(book dbgen.Book, format dbgen.BookFormat, qty int32) error {
	if format != dbgen.BookFormatPhysical {
		return nil
	}
	if book.Inventory < qty {
		return ErrInsufficientInventory
	}
	return nil
}

func toUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	return toUUID(value)
}

// UUIDString converts a pgtype.UUID into a canonical string.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
