package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/libraria-al/backend-libraria/internal/common"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

// AdminHandler provides administrative order management endpoints.
type AdminHandler struct {
	Q *dbgen.Queries
}

type patchStatusRequest struct {
	Status           string  `json:"status"`
	PaymentReference *string `json:"paymentReference"`
}

// PatchStatus advances the order status. The state machine is forward-only
// and the database guard rejects any transition the CASE list disallows.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	orderID := chi.URLParam(r, "id")
	oID, err := parseUUID(orderID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.Status == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "status is required", nil)
		return
	}
	target := dbgen.OrderStatus(req.Status)
	if !target.Valid() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported status", nil)
		return
	}
	current, err := h.Q.GetOrderStatus(r.Context(), oID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	if !TransitionAllowed(current, target) {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "state transition not allowed", nil)
		return
	}
	var ref pgtype.Text
	if req.PaymentReference != nil && *req.PaymentReference != "" {
		ref = pgtype.Text{String: *req.PaymentReference, Valid: true}
	}
	ord, err := h.Q.UpdateOrderStatusIfAllowed(r.Context(), dbgen.UpdateOrderStatusIfAllowedParams{ID: oID, Status: target, PaymentReference: ref})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusConflict, "INVALID_STATE", "state transition not allowed", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update order status", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":     orderID,
		"status": ord.Status,
	}})
}

// TransitionAllowed mirrors the database-side transition guard so callers
// can fail fast before issuing the update.
func TransitionAllowed(current, target dbgen.OrderStatus) bool {
	switch target {
	case dbgen.OrderStatusPAID:
		return current == dbgen.OrderStatusPENDING
	case dbgen.OrderStatusPROCESSING:
		return current == dbgen.OrderStatusPAID
	case dbgen.OrderStatusSHIPPED:
		return current == dbgen.OrderStatusPROCESSING
	case dbgen.OrderStatusDELIVERED:
		return current == dbgen.OrderStatusSHIPPED
	case dbgen.OrderStatusCANCELLED:
		return current == dbgen.OrderStatusPENDING || current == dbgen.OrderStatusPAID
	case dbgen.OrderStatusREFUNDED:
		switch current {
		case dbgen.OrderStatusPAID, dbgen.OrderStatusPROCESSING, dbgen.OrderStatusSHIPPED, dbgen.OrderStatusDELIVERED:
			return true
		}
		return false
	default:
		return false
	}
}

func parseUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
