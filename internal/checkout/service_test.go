package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

func TestFormatOrderNumber(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	got := formatOrderNumber("LIB", at, 1)
	if got != "LIB2609010001" {
		t.Fatalf("unexpected order number %q", got)
	}
	got = formatOrderNumber("LIB", at, 425)
	if got != "LIB2609010425" {
		t.Fatalf("unexpected order number %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation must not count")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Fatal("plain error must not count")
	}
	wrapped := errors.Join(errors.New("outer"), &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(wrapped) {
		t.Fatal("expected wrapped pg error to be detected")
	}
}

func TestCreationErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &CreationError{Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("expected CreationError to unwrap to inner error")
	}
}

func TestUnitPriceForPicksColumn(t *testing.T) {
	book := dbgen.Book{
		PriceAll:        1500,
		PriceEur:        1200,
		DigitalPriceAll: 900,
		DigitalPriceEur: 700,
	}
	cases := []struct {
		format   dbgen.BookFormat
		currency dbgen.CurrencyCode
		want     int64
	}{
		{dbgen.BookFormatPhysical, dbgen.CurrencyCodeALL, 1500},
		{dbgen.BookFormatPhysical, dbgen.CurrencyCodeEUR, 1200},
		{dbgen.BookFormatDigital, dbgen.CurrencyCodeALL, 900},
		{dbgen.BookFormatDigital, dbgen.CurrencyCodeEUR, 700},
	}
	for _, tc := range cases {
		if got := unitPriceFor(book, tc.format, tc.currency); got != tc.want {
			t.Fatalf("%s/%s: expected %d, got %d", tc.format, tc.currency, tc.want, got)
		}
	}
}

func TestValidationErrorsNotWrapped(t *testing.T) {
	if !isValidationError(ErrEmptyCart) {
		t.Fatal("empty cart is a validation error")
	}
	if isValidationError(errors.New("db down")) {
		t.Fatal("infrastructure errors are not validation errors")
	}
}
