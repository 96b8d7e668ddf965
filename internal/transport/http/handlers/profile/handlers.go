package profilehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiptrack/internal/domain/profile"
	"tiptrack/internal/transport/http/api"
	"tiptrack/internal/transport/http/middleware"
)

type Handler struct {
	Store profile.StoreAPI
}

func NewHandler(store profile.StoreAPI) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Store.Get(r.Context(), user.UserID)
	if errors.Is(err, profile.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("load profile failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "profile_get_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}
