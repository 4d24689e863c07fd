package accesslog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libraria-al/backend-libraria/internal/common"
)

// Handler serves read-only access log endpoints.
type Handler struct {
	Svc *Service
}

// ByLicense handles GET /rentals/{id}/access-log.
func (h *Handler) ByLicense(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "access log service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 50)
	entries, err := h.Svc.ForLicense(r.Context(), userID, chi.URLParam(r, "id"), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": entries,
		"meta": map[string]any{"page": page, "limit": perPage},
	})
}

// ByUser handles GET /me/access-log.
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "access log service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 50)
	entries, err := h.Svc.ForUser(r.Context(), userID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": entries,
		"meta": map[string]any{"page": page, "limit": perPage},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "license not found", nil)
	case errors.Is(err, ErrForbidden):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "license belongs to another user", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
