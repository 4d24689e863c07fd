package coupon

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidCoupon is returned when the code does not resolve to a usable coupon.
	ErrInvalidCoupon = errors.New("invalid coupon")
	// ErrUsageLimitReached indicates the coupon has exhausted its global quota.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrCouponInactive is returned when the coupon is used before its validity window opens.
	ErrCouponInactive = errors.New("coupon not active")
	// ErrCouponExpired is returned when the coupon validity window has closed.
	ErrCouponExpired = errors.New("coupon expired")
)

// Rule captures the runtime constraints of a coupon.
type Rule struct {
	Code       string
	Kind       string
	Value      int64
	PercentBps *int32
	UsageLimit *int32
	UsedCount  int32
	ValidFrom  *time.Time
	ValidTo    *time.Time
}

// Validate ensures the rule can be applied at the provided instant.
func (r Rule) Validate(now time.Time) error {
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return ErrCouponInactive
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return ErrCouponExpired
	}
	if r.UsageLimit != nil && *r.UsageLimit >= 0 && r.UsedCount >= *r.UsageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

// Compute determines the discount amount against the eligible subtotal.
// Percent coupons use basis points; fixed coupons use Value directly. The
// result is clamped to the eligible amount and never negative.
func Compute(eligible int64, r Rule) int64 {
	if eligible <= 0 {
		return 0
	}
	discount := r.Value
	if strings.EqualFold(r.Kind, "percent") {
		if r.PercentBps == nil || *r.PercentBps <= 0 {
			return 0
		}
		discount = (eligible * int64(*r.PercentBps)) / 10000
	}
	if discount > eligible {
		discount = eligible
	}
	if discount < 0 {
		return 0
	}
	return discount
}
