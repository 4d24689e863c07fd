package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/libraria-al/backend-libraria/internal/common"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
	"github.com/libraria-al/backend-libraria/internal/pricing"
)

// Handler wires the cart service to HTTP. All routes require an
// authenticated user.
type Handler struct {
	Svc *Service
}

// Get returns the cart contents with a pricing preview.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	lines, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	currency := dbgen.CurrencyCodeALL
	responseItems := make([]map[string]any, 0, len(lines))
	pricingItems := make([]pricing.Item, 0, len(lines))
	for _, line := range lines {
		unitPrice := unitPriceFor(line.Book, line.Item.Format, line.Item.Currency)
		currency = line.Item.Currency
		responseItems = append(responseItems, map[string]any{
			"id":        UUIDString(line.Item.ID),
			"bookId":    UUIDString(line.Item.BookID),
			"title":     line.Book.Title,
			"slug":      line.Book.Slug,
			"format":    line.Item.Format,
			"qty":       line.Item.Qty,
			"currency":  line.Item.Currency,
			"unitPrice": unitPrice,
			"subtotal":  int64(line.Item.Qty) * unitPrice,
		})
		pricingItems = append(pricingItems, pricing.Item{
			Qty:       int(line.Item.Qty),
			UnitPrice: unitPrice,
			Format:    line.Item.Format,
		})
	}

	rule, err := pricing.RuleForCurrency(r.Context(), h.Svc.Q, currency)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load shipping settings", nil)
		return
	}
	summary := pricing.Quote(pricingItems, 0, rule)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"items":        responseItems,
			"currency":     currency,
			"subtotal":     summary.Subtotal,
			"shippingCost": summary.Shipping,
			"totalAmount":  summary.Total,
		},
	})
}

// AddItem adds a book to the cart or merges into an existing line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload struct {
		BookID   string `json:"bookId"`
		Format   string `json:"format"`
		Qty      int    `json:"qty"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(payload.BookID) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "bookId is required", nil)
		return
	}
	if payload.Qty <= 0 {
		payload.Qty = 1
	}
	currency := dbgen.CurrencyCode(strings.ToUpper(strings.TrimSpace(payload.Currency)))
	if currency == "" {
		currency = dbgen.CurrencyCodeALL
	}
	item, err := h.Svc.AddItem(r.Context(), userID, payload.BookID, dbgen.BookFormat(strings.ToLower(strings.TrimSpace(payload.Format))), payload.Qty, currency)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": itemBody(item)})
}

// UpdateQty sets the quantity for a cart line.
func (h *Handler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	item, err := h.Svc.UpdateQty(r.Context(), userID, chi.URLParam(r, "id"), payload.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": itemBody(item)})
}

// RemoveItem deletes a cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every line from the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	if err := h.Svc.Clear(r.Context(), userID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemBody(item dbgen.CartItem) map[string]any {
	return map[string]any{
		"id":       UUIDString(item.ID),
		"bookId":   UUIDString(item.BookID),
		"format":   item.Format,
		"qty":      item.Qty,
		"currency": item.Currency,
	}
}

// unitPriceFor picks the price column matching the line's format and currency.
func unitPriceFor(book dbgen.Book, format dbgen.BookFormat, currency dbgen.CurrencyCode) int64 {
	if format == dbgen.BookFormatDigital {
		if currency == dbgen.CurrencyCodeEUR {
			return book.DigitalPriceEur
		}
		return book.DigitalPriceAll
	}
	if currency == dbgen.CurrencyCodeEUR {
		return book.PriceEur
	}
	return book.PriceAll
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNoDigitalVersion):
		common.JSONError(w, http.StatusBadRequest, "NO_DIGITAL_VERSION", err.Error(), nil)
	case errors.Is(err, ErrInsufficientInventory):
		common.JSONError(w, http.StatusConflict, "INSUFFICIENT_INVENTORY", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
