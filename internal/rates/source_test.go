package rates

import (
	"context"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type stubRateQuerier struct {
	row dbgen.ExchangeRate
	err error
}

func (s stubRateQuerier) GetActiveExchangeRate(context.Context, dbgen.GetActiveExchangeRateParams) (dbgen.ExchangeRate, error) {
	return s.row, s.err
}

func TestDBSourceSameCurrencyIsIdentity(t *testing.T) {
	src := DBSource{}
	snap, err := src.Snapshot(context.Background(), dbgen.CurrencyCodeALL, dbgen.CurrencyCodeALL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Rate.Int.Cmp(big.NewInt(1)) != 0 || snap.Rate.Exp != 0 {
		t.Fatalf("expected identity rate, got %+v", snap.Rate)
	}
}

func TestDBSourceMissingRate(t *testing.T) {
	src := DBSource{Q: stubRateQuerier{err: pgx.ErrNoRows}}
	_, err := src.Snapshot(context.Background(), dbgen.CurrencyCodeEUR, dbgen.CurrencyCodeALL)
	if err != ErrRateUnavailable {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestDBSourceReturnsStoredRate(t *testing.T) {
	rate := pgtype.Numeric{Int: big.NewInt(995), Exp: -1, Valid: true}
	src := DBSource{Q: stubRateQuerier{row: dbgen.ExchangeRate{
		FromCurrency: dbgen.CurrencyCodeEUR,
		ToCurrency:   dbgen.CurrencyCodeALL,
		Rate:         rate,
	}}}
	snap, err := src.Snapshot(context.Background(), dbgen.CurrencyCodeEUR, dbgen.CurrencyCodeALL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Rate.Int.Cmp(big.NewInt(995)) != 0 {
		t.Fatalf("expected stored rate, got %+v", snap.Rate)
	}
}

func TestFixedWithoutValue(t *testing.T) {
	_, err := Fixed{}.Snapshot(context.Background(), dbgen.CurrencyCodeEUR, dbgen.CurrencyCodeALL)
	if err != ErrRateUnavailable {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}
