package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/libraria-al/backend-libraria/internal/cart"
	"github.com/libraria-al/backend-libraria/internal/coupon"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
	"github.com/libraria-al/backend-libraria/internal/events"
	"github.com/libraria-al/backend-libraria/internal/obs"
	"github.com/libraria-al/backend-libraria/internal/pricing"
	"github.com/libraria-al/backend-libraria/internal/rates"
)

// BaseCurrency is the currency every order's exchange rate converts into.
const BaseCurrency = dbgen.CurrencyCodeALL

var (
	// ErrEmptyCart is returned when checkout runs against a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMixedCurrency is returned when cart lines carry different currencies.
	ErrMixedCurrency = errors.New("cart lines carry mixed currencies")
)

// CreationError wraps any failure inside the order transaction so callers can
// distinguish pipeline failures from validation errors.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Addr is the shipping address snapshot stored on the order.
type Addr struct {
	ReceiverName string `json:"receiverName" validate:"required"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
}

// Input carries the checkout request payload.
type Input struct {
	Address       Addr     `json:"address"`
	PaymentMethod string   `json:"paymentMethod" validate:"required"`
	CouponCode    *string  `json:"couponCode"`
	RentalItemIDs []string `json:"rentalItemIds"`
}

// Output summarises the created order.
type Output struct {
	OrderID      string `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	Status       string `json:"status"`
	Currency     string `json:"currency"`
	Subtotal     int64  `json:"subtotal"`
	ShippingCost int64  `json:"shippingCost"`
	Discount     int64  `json:"discount"`
	TotalAmount  int64  `json:"totalAmount"`
}

// Querier is the slice of generated queries the checkout pipeline touches.
// It covers the coupon settlement and shipping rule lookups so the whole
// pipeline runs against one transaction-bound value.
type Querier interface {
	ListCartItemsForUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.CartItem, error)
	GetBookByID(ctx context.Context, id pgtype.UUID) (dbgen.Book, error)
	GetShippingSetting(ctx context.Context, currency dbgen.CurrencyCode) (dbgen.ShippingSetting, error)
	GetActiveExchangeRate(ctx context.Context, arg dbgen.GetActiveExchangeRateParams) (dbgen.ExchangeRate, error)
	GetCouponByCode(ctx context.Context, code string) (dbgen.Coupon, error)
	CountCouponUsageByUser(ctx context.Context, arg dbgen.CountCouponUsageByUserParams) (int64, error)
	InsertCouponUsage(ctx context.Context, arg dbgen.InsertCouponUsageParams) error
	IncreaseCouponUsedCount(ctx context.Context, id pgtype.UUID) error
	CountOrdersCreatedBetween(ctx context.Context, arg dbgen.CountOrdersCreatedBetweenParams) (int64, error)
	CreateOrder(ctx context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error)
	CreateOrderItem(ctx context.Context, arg dbgen.CreateOrderItemParams) (dbgen.OrderItem, error)
	ClearCartForUser(ctx context.Context, userID pgtype.UUID) error
}

// Store is a Querier that can rebind itself to a transaction.
type Store interface {
	Querier
	WithTx(tx pgx.Tx) Querier
}

// TxBeginner is the subset of pgxpool.Pool the service needs.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// NewStore adapts the generated queries to Store.
func NewStore(q *dbgen.Queries) Store {
	return genStore{q}
}

type genStore struct {
	*dbgen.Queries
}

func (g genStore) WithTx(tx pgx.Tx) Querier {
	return g.Queries.WithTx(tx)
}

// Service implements the checkout pipeline. Create runs in a single
// transaction: price snapshot, coupon settlement, order number generation
// with bounded retry, order persistence, and cart clearing commit together.
type Service struct {
	Q          Store
	Pool       TxBeginner
	Coupons    *coupon.Service
	Rates      rates.Source
	Events     *events.Bus
	Prefix     string
	MaxRetries int
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) maxRetries() int {
	if s == nil || s.MaxRetries < 1 {
		return 3
	}
	return s.MaxRetries
}

func (s *Service) prefix() string {
	if s == nil || s.Prefix == "" {
		return "LIB"
	}
	return s.Prefix
}

// Create runs the checkout pipeline for the user's cart.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Output, error) {
	if s == nil || s.Q == nil || s.Pool == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if userID == "" {
		return Output{}, errors.New("user is required for checkout")
	}
	uID, err := cart.ToUUID(userID)
	if err != nil {
		return Output{}, fmt.Errorf("invalid user id: %w", err)
	}

	rentalSet := make(map[[16]byte]bool, len(in.RentalItemIDs))
	for _, raw := range in.RentalItemIDs {
		id, err := cart.ToUUID(raw)
		if err != nil {
			return Output{}, fmt.Errorf("invalid rental item id %q: %w", raw, err)
		}
		rentalSet[id.Bytes] = true
	}

	var (
		out     Output
		orderID pgtype.UUID
	)
	for attempt := 0; attempt < s.maxRetries(); attempt++ {
		out, orderID, err = s.createOnce(ctx, uID, in, rentalSet)
		if err == nil {
			break
		}
		if isUniqueViolation(err) {
			if obs.OrderNumberRetries != nil {
				obs.OrderNumberRetries.Inc()
			}
			continue
		}
		break
	}
	if err != nil {
		if isValidationError(err) {
			return Output{}, err
		}
		return Output{}, &CreationError{Err: err}
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderCreated, orderID, map[string]any{
			"orderId":     out.OrderID,
			"orderNumber": out.OrderNumber,
			"userId":      userID,
			"totalAmount": out.TotalAmount,
		})
	}
	if obs.OrdersCreatedTotal != nil {
		obs.OrdersCreatedTotal.WithLabelValues(out.Currency, "created").Inc()
	}
	return out, nil
}

func (s *Service) createOnce(ctx context.Context, uID pgtype.UUID, in Input, rentalSet map[[16]byte]bool) (Output, pgtype.UUID, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Output{}, pgtype.UUID{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	items, err := qtx.ListCartItemsForUser(ctx, uID)
	if err != nil {
		return Output{}, pgtype.UUID{}, err
	}
	if len(items) == 0 {
		return Output{}, pgtype.UUID{}, ErrEmptyCart
	}

	currency := items[0].Currency
	type lineSnapshot struct {
		item      dbgen.CartItem
		title     string
		unitPrice int64
	}
	lines := make([]lineSnapshot, 0, len(items))
	pricingItems := make([]pricing.Item, 0, len(items))
	for _, item := range items {
		if item.Currency != currency {
			return Output{}, pgtype.UUID{}, ErrMixedCurrency
		}
		book, err := qtx.GetBookByID(ctx, item.BookID)
		if err != nil {
			return Output{}, pgtype.UUID{}, fmt.Errorf("load book for cart line: %w", err)
		}
		unitPrice := unitPriceFor(book, item.Format, item.Currency)
		lines = append(lines, lineSnapshot{item: item, title: book.Title, unitPrice: unitPrice})
		pricingItems = append(pricingItems, pricing.Item{
			Qty:       int(item.Qty),
			UnitPrice: unitPrice,
			Format:    item.Format,
		})
	}

	rule, err := pricing.RuleForCurrency(ctx, qtx, currency)
	if err != nil {
		return Output{}, pgtype.UUID{}, err
	}

	var (
		discount   int64
		couponID   pgtype.UUID
		couponCode pgtype.Text
	)
	preview := pricing.Quote(pricingItems, 0, rule)
	if in.CouponCode != nil && *in.CouponCode != "" {
		if s.Coupons == nil {
			return Output{}, pgtype.UUID{}, coupon.ErrInvalidCoupon
		}
		eval, err := s.Coupons.Evaluate(ctx, *in.CouponCode, preview.Subtotal)
		if err != nil {
			return Output{}, pgtype.UUID{}, err
		}
		discount = eval.Discount
		couponID = eval.Coupon.ID
		couponCode = pgtype.Text{String: eval.Coupon.Code, Valid: true}
	}
	summary := pricing.Quote(pricingItems, discount, rule)

	src := s.Rates
	if src == nil {
		src = rates.DBSource{Q: qtx}
	}
	snap, err := src.Snapshot(ctx, currency, BaseCurrency)
	if err != nil {
		return Output{}, pgtype.UUID{}, fmt.Errorf("exchange rate snapshot: %w", err)
	}

	number, err := s.nextOrderNumber(ctx, qtx)
	if err != nil {
		return Output{}, pgtype.UUID{}, err
	}

	order, err := qtx.CreateOrder(ctx, dbgen.CreateOrderParams{
		OrderNumber:     number,
		UserID:          uID,
		Currency:        currency,
		ExchangeRate:    snap.Rate,
		Subtotal:        summary.Subtotal,
		ShippingCost:    summary.Shipping,
		Discount:        summary.Discount,
		TotalAmount:     summary.Total,
		CouponCode:      couponCode,
		ShippingAddress: toJSON(in.Address),
		PaymentMethod:   in.PaymentMethod,
	})
	if err != nil {
		return Output{}, pgtype.UUID{}, err
	}

	for _, line := range lines {
		if _, err := qtx.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
			OrderID:   order.ID,
			BookID:    line.item.BookID,
			Title:     line.title,
			Format:    line.item.Format,
			Qty:       line.item.Qty,
			UnitPrice: line.unitPrice,
			Subtotal:  int64(line.item.Qty) * line.unitPrice,
			IsRental:  rentalSet[line.item.ID.Bytes],
		}); err != nil {
			return Output{}, pgtype.UUID{}, err
		}
	}

	if couponID.Valid {
		if err := s.Coupons.Settle(ctx, qtx, couponID, order.ID, uID, summary.Discount); err != nil {
			return Output{}, pgtype.UUID{}, err
		}
	}

	if err := qtx.ClearCartForUser(ctx, uID); err != nil {
		return Output{}, pgtype.UUID{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Output{}, pgtype.UUID{}, err
	}

	return Output{
		OrderID:      cart.UUIDString(order.ID),
		OrderNumber:  order.OrderNumber,
		Status:       string(order.Status),
		Currency:     string(order.Currency),
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		Discount:     order.Discount,
		TotalAmount:  order.TotalAmount,
	}, order.ID, nil
}

// nextOrderNumber derives the next date-scoped sequence number. The sequence
// counts today's orders; the unique constraint on order_number catches races
// and the caller retries.
func (s *Service) nextOrderNumber(ctx context.Context, qtx Querier) (string, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := qtx.CountOrdersCreatedBetween(ctx, dbgen.CountOrdersCreatedBetweenParams{
		FromTime: pgtype.Timestamptz{Time: dayStart, Valid: true},
		ToTime:   pgtype.Timestamptz{Time: dayStart.Add(24 * time.Hour), Valid: true},
	})
	if err != nil {
		return "", err
	}
	return formatOrderNumber(s.prefix(), now, count+1), nil
}

func formatOrderNumber(prefix string, t time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, t.Format("060102"), seq)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrMixedCurrency) ||
		errors.Is(err, coupon.ErrInvalidCoupon) ||
		errors.Is(err, coupon.ErrCouponInactive) ||
		errors.Is(err, coupon.ErrCouponExpired) ||
		errors.Is(err, coupon.ErrUsageLimitReached)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func unitPriceFor(book dbgen.Book, format dbgen.BookFormat, currency dbgen.CurrencyCode) int64 {
	if format == dbgen.BookFormatDigital {
		if currency == dbgen.CurrencyCodeEUR {
			return book.DigitalPriceEur
		}
		return book.DigitalPriceAll
	}
	if currency == dbgen.CurrencyCodeEUR {
		return book.PriceEur
	}
	return book.PriceAll
}

func toJSON(v any) []byte {
	if v == nil {
		return nil
	}
	b, _ := json.Marshal(v)
	return b
}
