package pricing

import dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"

// Money represents a monetary value stored in minor units.
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
	Format    dbgen.BookFormat
}

// ShippingRule holds the per-currency shipping cost and free shipping threshold.
type ShippingRule struct {
	Cost      Money
	Threshold Money
}

// DefaultShippingRules returns the built-in shipping configuration used when
// the settings table carries no row for a currency.
func DefaultShippingRules() map[dbgen.CurrencyCode]ShippingRule {
	return map[dbgen.CurrencyCode]ShippingRule{
		dbgen.CurrencyCodeALL: {Cost: 300, Threshold: 3000},
		dbgen.CurrencyCodeEUR: {Cost: 300, Threshold: 3000},
	}
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal Money
	Discount Money
	Shipping Money
	Total    Money
}

// Quote calculates cart totals. Shipping applies only when the cart contains
// at least one physical item and the subtotal stays below the free shipping
// threshold. Discount is clamped so the total never goes negative.
func Quote(items []Item, discount Money, rule ShippingRule) Summary {
	var subtotal Money
	physical := false
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
		if it.Format == dbgen.BookFormatPhysical {
			physical = true
		}
	}

	var shipping Money
	if physical && subtotal < rule.Threshold {
		shipping = rule.Cost
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	total := subtotal - discount + shipping
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    total,
	}
}
