package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type stubQuerier struct {
	coupon     dbgen.Coupon
	getErr     error
	usageRows  []dbgen.InsertCouponUsageParams
	bumpedIDs  []pgtype.UUID
	usageCount int64
}

func (s *stubQuerier) GetCouponByCode(context.Context, string) (dbgen.Coupon, error) {
	return s.coupon, s.getErr
}

func (s *stubQuerier) CountCouponUsageByUser(context.Context, dbgen.CountCouponUsageByUserParams) (int64, error) {
	return s.usageCount, nil
}

func (s *stubQuerier) InsertCouponUsage(_ context.Context, arg dbgen.InsertCouponUsageParams) error {
	s.usageRows = append(s.usageRows, arg)
	return nil
}

func (s *stubQuerier) IncreaseCouponUsedCount(_ context.Context, id pgtype.UUID) error {
	s.bumpedIDs = append(s.bumpedIDs, id)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestEvaluateUnknownCode(t *testing.T) {
	svc := &Service{Q: &stubQuerier{getErr: pgx.ErrNoRows}, Now: fixedNow}
	_, err := svc.Evaluate(context.Background(), "NOPE", 10_000)
	if err != ErrInvalidCoupon {
		t.Fatalf("expected ErrInvalidCoupon, got %v", err)
	}
}

func TestEvaluateFixedAmount(t *testing.T) {
	q := &stubQuerier{coupon: dbgen.Coupon{Code: "SAVE500", Kind: "fixed_amount", Value: 500}}
	svc := &Service{Q: q, Now: fixedNow}
	eval, err := svc.Evaluate(context.Background(), "SAVE500", 2_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Discount != 500 {
		t.Fatalf("expected discount 500, got %d", eval.Discount)
	}
}

func TestEvaluatePercent(t *testing.T) {
	bps := int32(1500)
	q := &stubQuerier{coupon: dbgen.Coupon{
		Code:       "PCT15",
		Kind:       "percent",
		PercentBps: pgtype.Int4{Int32: bps, Valid: true},
	}}
	svc := &Service{Q: q, Now: fixedNow}
	eval, err := svc.Evaluate(context.Background(), "PCT15", 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Discount != 1_500 {
		t.Fatalf("expected discount 1500, got %d", eval.Discount)
	}
}

func TestEvaluateExpired(t *testing.T) {
	past := fixedNow().Add(-time.Hour)
	q := &stubQuerier{coupon: dbgen.Coupon{
		Code:    "OLD",
		Kind:    "fixed_amount",
		Value:   100,
		ValidTo: pgtype.Timestamptz{Time: past, Valid: true},
	}}
	svc := &Service{Q: q, Now: fixedNow}
	_, err := svc.Evaluate(context.Background(), "OLD", 10_000)
	if err != ErrCouponExpired {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}
}

func TestEvaluateUsageLimit(t *testing.T) {
	q := &stubQuerier{coupon: dbgen.Coupon{
		Code:       "MAXED",
		Kind:       "fixed_amount",
		Value:      100,
		UsageLimit: pgtype.Int4{Int32: 5, Valid: true},
		UsedCount:  5,
	}}
	svc := &Service{Q: q, Now: fixedNow}
	_, err := svc.Evaluate(context.Background(), "MAXED", 10_000)
	if err != ErrUsageLimitReached {
		t.Fatalf("expected ErrUsageLimitReached, got %v", err)
	}
}

func TestSettleRecordsUsageAndBumpsCounter(t *testing.T) {
	q := &stubQuerier{}
	svc := &Service{Q: q, Now: fixedNow}
	couponID := pgtype.UUID{Bytes: [16]byte{1}, Valid: true}
	orderID := pgtype.UUID{Bytes: [16]byte{2}, Valid: true}
	userID := pgtype.UUID{Bytes: [16]byte{3}, Valid: true}

	if err := svc.Settle(context.Background(), q, couponID, orderID, userID, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.usageRows) != 1 || q.usageRows[0].Amount != 500 {
		t.Fatalf("expected one usage row of 500, got %+v", q.usageRows)
	}
	if len(q.bumpedIDs) != 1 {
		t.Fatalf("expected used count bump")
	}
}

func TestSettleNoopWithoutCoupon(t *testing.T) {
	q := &stubQuerier{}
	svc := &Service{Q: q, Now: fixedNow}
	if err := svc.Settle(context.Background(), q, pgtype.UUID{}, pgtype.UUID{Bytes: [16]byte{2}, Valid: true}, pgtype.UUID{}, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.usageRows) != 0 {
		t.Fatalf("expected no usage rows")
	}
}
