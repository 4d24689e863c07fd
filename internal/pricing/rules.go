package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type settingsQuerier interface {
	GetShippingSetting(ctx context.Context, currency dbgen.CurrencyCode) (dbgen.ShippingSetting, error)
}

// RuleForCurrency loads the shipping rule for a currency, falling back to the
// built-in defaults when the settings table has no row.
func RuleForCurrency(ctx context.Context, q settingsQuerier, currency dbgen.CurrencyCode) (ShippingRule, error) {
	if q != nil {
		row, err := q.GetShippingSetting(ctx, currency)
		if err == nil {
			return ShippingRule{Cost: row.ShippingCost, Threshold: row.FreeShippingThreshold}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return ShippingRule{}, err
		}
	}
	if rule, ok := DefaultShippingRules()[currency]; ok {
		return rule, nil
	}
	return ShippingRule{}, errors.New("pricing: unsupported currency")
}
