package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/libraria-al/backend-libraria/internal/common"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
	"github.com/libraria-al/backend-libraria/internal/events"
	"github.com/libraria-al/backend-libraria/internal/obs"
)

// Querier is the subset of store queries the webhook needs.
type Querier interface {
	GetOrderStatus(ctx context.Context, id pgtype.UUID) (dbgen.OrderStatus, error)
	UpdateOrderStatusIfAllowed(ctx context.Context, arg dbgen.UpdateOrderStatusIfAllowedParams) (dbgen.Order, error)
}

// Webhook applies provider status callbacks to orders. Transitions run
// through the forward-only guard, so a stale or duplicate callback can
// never move an order backwards.
type Webhook struct {
	Q         Querier
	Replay    *redis.Client
	ReplayTTL time.Duration
	Events    *events.Bus
}

type webhookPayload struct {
	OrderID          string `json:"orderId"`
	PaymentReference string `json:"paymentReference"`
	NewStatus        string `json:"newStatus"`
}

// Handle processes POST /webhooks/payment.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "webhook unavailable", nil)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload", nil)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.count("invalid_payload")
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "invalid payload", nil)
		return
	}
	target := dbgen.OrderStatus(strings.ToUpper(strings.TrimSpace(payload.NewStatus)))
	if !allowedWebhookStatus(target) {
		h.count("invalid_status")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported status", nil)
		return
	}
	orderUUID, err := parseUUID(payload.OrderID)
	if err != nil {
		h.count("invalid_order")
		common.JSONError(w, http.StatusBadRequest, "INVALID_ORDER_ID", "invalid order identifier", nil)
		return
	}

	if h.Replay != nil && h.ReplayTTL > 0 {
		key := fmt.Sprintf("wh:payment:%s", common.Sha256Hex(string(body)))
		fresh, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "REPLAY_STORE_ERROR", err.Error(), nil)
			return
		}
		if !fresh {
			h.count("replay")
			common.JSONError(w, http.StatusConflict, "REPLAY", "duplicate webhook", nil)
			return
		}
	}

	ctx := r.Context()
	if _, err := h.Q.GetOrderStatus(ctx, orderUUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.count("order_not_found")
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}

	var ref pgtype.Text
	if strings.TrimSpace(payload.PaymentReference) != "" {
		ref = pgtype.Text{String: strings.TrimSpace(payload.PaymentReference), Valid: true}
	}
	ord, err := h.Q.UpdateOrderStatusIfAllowed(ctx, dbgen.UpdateOrderStatusIfAllowedParams{
		ID:               orderUUID,
		Status:           target,
		PaymentReference: ref,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.count("invalid_transition")
			common.JSONError(w, http.StatusConflict, "INVALID_STATE", "state transition not allowed", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update order", nil)
		return
	}

	h.count("applied")
	h.emit(ctx, ord)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"orderId": payload.OrderID,
		"status":  ord.Status,
	}})
}

func (h Webhook) emit(ctx context.Context, ord dbgen.Order) {
	if h.Events == nil {
		return
	}
	topic := ""
	switch ord.Status {
	case dbgen.OrderStatusPAID:
		topic = events.TopicOrderPaid
	case dbgen.OrderStatusCANCELLED:
		topic = events.TopicOrderCancelled
	case dbgen.OrderStatusREFUNDED:
		topic = events.TopicOrderRefunded
	default:
		return
	}
	if _, err := h.Events.Emit(ctx, topic, ord.ID, map[string]any{
		"orderNumber": ord.OrderNumber,
		"status":      ord.Status,
	}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("payment webhook event emit failed")
	}
}

func (h Webhook) count(result string) {
	if obs.PaymentWebhookTotal != nil {
		obs.PaymentWebhookTotal.WithLabelValues(result).Inc()
	}
}

// allowedWebhookStatus restricts webhook writes to the payment outcomes.
// Fulfilment states stay with the admin endpoint.
func allowedWebhookStatus(status dbgen.OrderStatus) bool {
	switch status {
	case dbgen.OrderStatusPAID, dbgen.OrderStatusCANCELLED, dbgen.OrderStatusREFUNDED:
		return true
	}
	return false
}

func parseUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
