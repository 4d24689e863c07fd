package rental

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/libraria-al/backend-libraria/internal/common"
)

// Handler exposes rental issuing, verification, and returns over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// IssueDigital issues a digital rental license for the authenticated user.
func (h *Handler) IssueDigital(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload DigitalInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", map[string]any{"validation": err.Error()})
			return
		}
	}
	out, err := h.Svc.IssueDigital(r.Context(), userID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

// IssueHardcopy issues a physical rental for the authenticated user.
func (h *Handler) IssueHardcopy(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload HardcopyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", map[string]any{"validation": err.Error()})
			return
		}
	}
	out, err := h.Svc.IssueHardcopy(r.Context(), userID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

// Verify checks the bearer security token and grants asset access. The
// endpoint is token-authenticated rather than session-authenticated so
// reader devices can call it directly.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	token := bearerToken(r)
	if token == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "security token required", nil)
		return
	}
	var payload struct {
		UserID string `json:"userId"`
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.VerifyAccess(r.Context(), VerifyInput{
		LicenseID: chi.URLParam(r, "id"),
		Token:     token,
		UserID:    payload.UserID,
		BookID:    payload.BookID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Return closes a rental for the authenticated user.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rental service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload ReturnInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Return(r.Context(), userID, chi.URLParam(r, "id"), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
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
	var dup *DuplicateActiveRentalError
	switch {
	case errors.As(err, &dup):
		common.JSONError(w, http.StatusConflict, "DUPLICATE_ACTIVE_RENTAL", "an active rental already exists for this book",
			map[string]any{"existingLicenseId": dup.ExistingLicenseID})
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrNoDigitalVersion):
		common.JSONError(w, http.StatusBadRequest, "NO_DIGITAL_VERSION", err.Error(), nil)
	case errors.Is(err, ErrUnpaidRental):
		common.JSONError(w, http.StatusPaymentRequired, "UNPAID_RENTAL", err.Error(), nil)
	case errors.Is(err, ErrInsufficientInventory):
		common.JSONError(w, http.StatusConflict, "INSUFFICIENT_INVENTORY", err.Error(), nil)
	case errors.Is(err, ErrInvalidToken):
		common.JSONError(w, http.StatusForbidden, "INVALID_TOKEN", err.Error(), nil)
	case errors.Is(err, ErrLicenseExpired):
		common.JSONError(w, http.StatusForbidden, "LICENSE_EXPIRED", err.Error(), nil)
	case errors.Is(err, ErrLicenseInactive):
		common.JSONError(w, http.StatusForbidden, "LICENSE_INACTIVE", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
