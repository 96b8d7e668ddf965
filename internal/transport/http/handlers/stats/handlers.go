package statshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiptrack/internal/domain/stats"
	"tiptrack/internal/transport/http/api"
	"tiptrack/internal/transport/http/middleware"
)

type Handler struct {
	Service *stats.Service
}

func NewHandler(service *stats.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats/summary", h.handleSummary)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.Summary(r.Context(), user.UserID)
	if err != nil {
		slog.Error("stats summary failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to compute summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
