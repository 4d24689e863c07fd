package rates

import (
	"context"
	"errors"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

// ErrRateUnavailable is returned when no active exchange rate exists for a pair.
var ErrRateUnavailable = errors.New("rates: no active exchange rate for currency pair")

// Snapshot captures the exchange rate in effect at the time an order is priced.
// The rate converts one unit of From into To.
type Snapshot struct {
	From dbgen.CurrencyCode
	To   dbgen.CurrencyCode
	Rate pgtype.Numeric
}

// Source resolves the exchange rate to snapshot onto a new order.
type Source interface {
	Snapshot(ctx context.Context, from, to dbgen.CurrencyCode) (Snapshot, error)
}

// One returns a pgtype.Numeric holding exactly 1, the identity rate.
func One() pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(1), Exp: 0, Valid: true}
}

type rateQuerier interface {
	GetActiveExchangeRate(ctx context.Context, arg dbgen.GetActiveExchangeRateParams) (dbgen.ExchangeRate, error)
}

// DBSource reads active rates from the exchange_rates table. Same-currency
// pairs resolve to 1 without touching the database.
type DBSource struct {
	Q rateQuerier
}

// Snapshot implements Source.
func (s DBSource) Snapshot(ctx context.Context, from, to dbgen.CurrencyCode) (Snapshot, error) {
	if from == to {
		return Snapshot{From: from, To: to, Rate: One()}, nil
	}
	if s.Q == nil {
		return Snapshot{}, errors.New("rates: querier not configured")
	}
	row, err := s.Q.GetActiveExchangeRate(ctx, dbgen.GetActiveExchangeRateParams{
		FromCurrency: from,
		ToCurrency:   to,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrRateUnavailable
		}
		return Snapshot{}, err
	}
	return Snapshot{From: row.FromCurrency, To: row.ToCurrency, Rate: row.Rate}, nil
}

// Fixed is a Source returning a constant rate. Used in tests and as a
// bootstrap fallback before rates are seeded.
type Fixed struct {
	Value pgtype.Numeric
}

// Snapshot implements Source.
func (f Fixed) Snapshot(_ context.Context, from, to dbgen.CurrencyCode) (Snapshot, error) {
	if from == to {
		return Snapshot{From: from, To: to, Rate: One()}, nil
	}
	if !f.Value.Valid {
		return Snapshot{}, ErrRateUnavailable
	}
	return Snapshot{From: from, To: to, Rate: f.Value}, nil
}
