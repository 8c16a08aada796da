package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/artha-erp/artha/internal/platform/httpx"
	"github.com/artha-erp/artha/internal/shared"
)

// Handler exposes the read-only movement listing. Movements are created
// only as side effects of document status transitions, never directly.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers inventory routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock-movements", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListMovementsRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "product_id must be an integer")
			return
		}
		req.ProductID = &id
	}
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d := Direction(raw)
		if !d.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "direction must be in or out")
			return
		}
		req.Direction = &d
	}

	movements, total, err := h.repo.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list stock movements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"data": movements,
		"meta": shared.NewPagination(req.Page, req.Limit, total),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
