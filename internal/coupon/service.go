package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

// Querier captures the database methods required by the coupon service.
type Querier interface {
	GetCouponByCode(ctx context.Context, code string) (dbgen.Coupon, error)
	CountCouponUsageByUser(ctx context.Context, arg dbgen.CountCouponUsageByUserParams) (int64, error)
	InsertCouponUsage(ctx context.Context, arg dbgen.InsertCouponUsageParams) error
	IncreaseCouponUsedCount(ctx context.Context, id pgtype.UUID) error
}

// Evaluation describes the outcome of resolving a coupon against a subtotal.
type Evaluation struct {
	Coupon   dbgen.Coupon
	Discount int64
}

// Service evaluates coupon rules and records usage at checkout.
type Service struct {
	Q   Querier
	Now func() time.Time
}

// Evaluate resolves the code, validates its window and quota, and computes
// the discount for the given subtotal. Unknown codes map to ErrInvalidCoupon.
func (s *Service) Evaluate(ctx context.Context, code string, subtotal int64) (Evaluation, error) {
	if s == nil || s.Q == nil {
		return Evaluation{}, errors.New("coupon service not configured")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Evaluation{}, ErrInvalidCoupon
	}
	row, err := s.Q.GetCouponByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, ErrInvalidCoupon
		}
		return Evaluation{}, err
	}
	rule := RuleFromModel(row)
	if err := rule.Validate(s.now()); err != nil {
		return Evaluation{}, err
	}
	discount := Compute(subtotal, rule)
	if discount <= 0 {
		return Evaluation{}, ErrInvalidCoupon
	}
	return Evaluation{Coupon: row, Discount: discount}, nil
}

// Settle records usage for an order. Runs inside the checkout transaction so
// the usage row and counter bump commit atomically with the order.
func (s *Service) Settle(ctx context.Context, q Querier, couponID, orderID, userID pgtype.UUID, amount int64) error {
	if q == nil {
		q = s.Q
	}
	if q == nil || !couponID.Valid || !orderID.Valid {
		return nil
	}
	if amount < 0 {
		amount = 0
	}
	if err := q.InsertCouponUsage(ctx, dbgen.InsertCouponUsageParams{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
		Amount:   amount,
	}); err != nil {
		return err
	}
	return q.IncreaseCouponUsedCount(ctx, couponID)
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RuleFromModel converts the generated sqlc model into a Rule used for evaluation.
func RuleFromModel(c dbgen.Coupon) Rule {
	rule := Rule{
		Code:       c.Code,
		Kind:       c.Kind,
		Value:      c.Value,
		UsedCount:  c.UsedCount,
		PercentBps: nullableInt32(c.PercentBps),
	}
	if c.ValidFrom.Valid {
		rule.ValidFrom = &c.ValidFrom.Time
	}
	if c.ValidTo.Valid {
		rule.ValidTo = &c.ValidTo.Time
	}
	if c.UsageLimit.Valid {
		limit := c.UsageLimit.Int32
		rule.UsageLimit = &limit
	}
	return rule
}

func nullableInt32(v pgtype.Int4) *int32 {
	if v.Valid {
		val := v.Int32
		return &val
	}
	return nil
}
