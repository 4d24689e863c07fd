package rates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/libraria-al/backend-libraria/internal/common"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type upsertQuerier interface {
	UpsertExchangeRate(ctx context.Context, arg dbgen.UpsertExchangeRateParams) (dbgen.ExchangeRate, error)
}

// AdminHandler exposes the exchange-rate upsert endpoint. A new rate only
// affects future orders; existing orders keep their snapshot.
type AdminHandler struct {
	Q upsertQuerier
}

type upsertRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate"`
}

// Upsert handles PUT /admin/exchange-rates.
func (h AdminHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rates queries not configured", nil)
		return
	}
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	from := dbgen.CurrencyCode(strings.ToUpper(strings.TrimSpace(req.From)))
	to := dbgen.CurrencyCode(strings.ToUpper(strings.TrimSpace(req.To)))
	if !from.Valid() || !to.Valid() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported currency", nil)
		return
	}
	if from == to {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "from and to must differ", nil)
		return
	}
	rate, err := parseRate(req.Rate)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "rate must be a positive decimal", nil)
		return
	}
	row, err := h.Q.UpsertExchangeRate(r.Context(), dbgen.UpsertExchangeRateParams{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to store rate", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"from":      row.FromCurrency,
		"to":        row.ToCurrency,
		"rate":      req.Rate,
		"updatedAt": row.UpdatedAt.Time,
	}})
}

// parseRate converts a decimal string like "0.0102" into a pgtype.Numeric.
func parseRate(value string) (pgtype.Numeric, error) {
	value = strings.TrimSpace(value)
	var n pgtype.Numeric
	if err := n.Scan(value); err != nil {
		return pgtype.Numeric{}, err
	}
	if !n.Valid || n.Int == nil || n.Int.Sign() <= 0 {
		return pgtype.Numeric{}, errors.New("rates: rate must be positive")
	}
	return n, nil
}
