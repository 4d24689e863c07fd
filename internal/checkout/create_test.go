package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

const checkoutUserID = "d4d4d4d4-d4d4-d4d4-d4d4-d4d4d4d4d4d4"

// stubStore drives the checkout transaction against in-memory data.
type stubStore struct {
	items []dbgen.CartItem
	books map[[16]byte]dbgen.Book

	orderItemErr error

	orders      []dbgen.CreateOrderParams
	orderItems  []dbgen.CreateOrderItemParams
	cartCleared bool
}

func (s *stubStore) WithTx(pgx.Tx) Querier { return s }

func (s *stubStore) ListCartItemsForUser(context.Context, pgtype.UUID) ([]dbgen.CartItem, error) {
	return s.items, nil
}

func (s *stubStore) GetBookByID(_ context.Context, id pgtype.UUID) (dbgen.Book, error) {
	book, ok := s.books[id.Bytes]
	if !ok {
		return dbgen.Book{}, pgx.ErrNoRows
	}
	return book, nil
}

func (s *stubStore) GetShippingSetting(context.Context, dbgen.CurrencyCode) (dbgen.ShippingSetting, error) {
	return dbgen.ShippingSetting{ShippingCost: 300, FreeShippingThreshold: 5000}, nil
}

func (s *stubStore) GetActiveExchangeRate(context.Context, dbgen.GetActiveExchangeRateParams) (dbgen.ExchangeRate, error) {
	return dbgen.ExchangeRate{}, pgx.ErrNoRows
}

func (s *stubStore) GetCouponByCode(context.Context, string) (dbgen.Coupon, error) {
	return dbgen.Coupon{}, pgx.ErrNoRows
}

func (s *stubStore) CountCouponUsageByUser(context.Context, dbgen.CountCouponUsageByUserParams) (int64, error) {
	return 0, nil
}

func (s *stubStore) InsertCouponUsage(context.Context, dbgen.InsertCouponUsageParams) error {
	return nil
}

func (s *stubStore) IncreaseCouponUsedCount(context.Context, pgtype.UUID) error {
	return nil
}

func (s *stubStore) CountOrdersCreatedBetween(context.Context, dbgen.CountOrdersCreatedBetweenParams) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *stubStore) CreateOrder(_ context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error) {
	s.orders = append(s.orders, arg)
	return dbgen.Order{
		ID:           pgtype.UUID{Bytes: [16]byte{byte(len(s.orders))}, Valid: true},
		OrderNumber:  arg.OrderNumber,
		UserID:       arg.UserID,
		Status:       dbgen.OrderStatusPENDING,
		Currency:     arg.Currency,
		ExchangeRate: arg.ExchangeRate,
		Subtotal:     arg.Subtotal,
		ShippingCost: arg.ShippingCost,
		Discount:     arg.Discount,
		TotalAmount:  arg.TotalAmount,
	}, nil
}

func (s *stubStore) CreateOrderItem(_ context.Context, arg dbgen.CreateOrderItemParams) (dbgen.OrderItem, error) {
	if s.orderItemErr != nil {
		return dbgen.OrderItem{}, s.orderItemErr
	}
	s.orderItems = append(s.orderItems, arg)
	return dbgen.OrderItem{OrderID: arg.OrderID, BookID: arg.BookID}, nil
}

func (s *stubStore) ClearCartForUser(context.Context, pgtype.UUID) error {
	s.cartCleared = true
	return nil
}

type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit(context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rollbacks++; return nil }

type fakePool struct {
	tx fakeTx
}

func (p *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return &p.tx, nil
}

func checkoutStore() *stubStore {
	bookID := pgtype.UUID{Bytes: [16]byte{1}, Valid: true}
	return &stubStore{
		items: []dbgen.CartItem{{
			ID:       pgtype.UUID{Bytes: [16]byte{2}, Valid: true},
			BookID:   bookID,
			Format:   dbgen.BookFormatPhysical,
			Qty:      2,
			Currency: dbgen.CurrencyCodeALL,
		}},
		books: map[[16]byte]dbgen.Book{
			bookID.Bytes: {ID: bookID, Title: "Kronikë në gur", PriceAll: 1000, Active: true},
		},
	}
}

func checkoutService(st *stubStore, pool *fakePool) *Service {
	return &Service{
		Q:    st,
		Pool: pool,
		Now:  func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestCreateCommitsOrderAndClearsCart(t *testing.T) {
	st := checkoutStore()
	pool := &fakePool{}
	svc := checkoutService(st, pool)

	out, err := svc.Create(context.Background(), checkoutUserID, Input{PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Subtotal != 2000 || out.ShippingCost != 300 || out.TotalAmount != 2300 {
		t.Fatalf("unexpected totals: %+v", out)
	}
	if out.OrderNumber != "LIB2609010001" {
		t.Fatalf("unexpected order number %q", out.OrderNumber)
	}
	if len(st.orders) != 1 || len(st.orderItems) != 1 {
		t.Fatalf("expected one order with one line, got %d/%d", len(st.orders), len(st.orderItems))
	}
	if !st.cartCleared {
		t.Fatal("expected the cart to be cleared inside the transaction")
	}
	if pool.tx.commits != 1 {
		t.Fatalf("expected one commit, got %d", pool.tx.commits)
	}
}

func TestCreateRollsBackWhenALineFails(t *testing.T) {
	// A failure after the order row is written must leave nothing behind:
	// no commit, cart untouched, and the pipeline error wrapped.
	st := checkoutStore()
	st.orderItemErr = errors.New("order_items insert failed")
	pool := &fakePool{}
	svc := checkoutService(st, pool)

	_, err := svc.Create(context.Background(), checkoutUserID, Input{PaymentMethod: "card"})
	var creation *CreationError
	if !errors.As(err, &creation) {
		t.Fatalf("expected CreationError, got %v", err)
	}
	if pool.tx.commits != 0 {
		t.Fatalf("transaction must not commit, got %d commits", pool.tx.commits)
	}
	if pool.tx.rollbacks == 0 {
		t.Fatal("expected the transaction to roll back")
	}
	if st.cartCleared {
		t.Fatal("cart must stay intact when the order fails")
	}
}
