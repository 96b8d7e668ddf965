package employershandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiptrack/internal/domain/employer"
	"tiptrack/internal/transport/http/api"
	"tiptrack/internal/transport/http/middleware"
	"tiptrack/internal/transport/http/shared"
)

type Handler struct {
	Service *employer.Service
}

func NewHandler(service *employer.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employers", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{employerID}", h.handleUpdate)
		r.Post("/{employerID}/deactivate", h.handleDeactivate)
		r.Post("/{employerID}/reactivate", h.handleReactivate)
		r.Delete("/{employerID}", h.handleDelete)
	})
}

type employerRequest struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	employers, err := h.Service.List(r.Context(), user.UserID, includeInactive)
	if err != nil {
		slog.Error("list employers failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employer_list_failed", "failed to list employers", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employers, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.Service.Create(r.Context(), user.UserID, payload.Name, payload.HourlyRate)
	if err != nil {
		slog.Error("create employer failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employer_create_failed", "failed to create employer", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	err := h.Service.Update(r.Context(), user.UserID, chi.URLParam(r, "employerID"), payload.Name, payload.HourlyRate)
	if err != nil {
		h.respondError(w, r, err, "employer_update_failed", "failed to update employer")
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var err error
	if active {
		err = h.Service.Reactivate(r.Context(), user.UserID, chi.URLParam(r, "employerID"))
	} else {
		err = h.Service.Deactivate(r.Context(), user.UserID, chi.URLParam(r, "employerID"))
	}
	if err != nil {
		h.respondError(w, r, err, "employer_status_failed", "failed to change employer status")
		return
	}
	api.Success(w, map[string]bool{"active": active}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "employerID"))
	if errors.Is(err, employer.ErrReferenced) {
		api.Fail(w, http.StatusConflict, "employer_referenced", "employer has recorded shifts; deactivate it instead", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		h.respondError(w, r, err, "employer_delete_failed", "failed to delete employer")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (employerRequest, bool) {
	var payload employerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return employerRequest{}, false
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.NonNegative("hourlyRate", payload.HourlyRate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return employerRequest{}, false
	}
	return payload, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	if errors.Is(err, employer.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employer not found", requestID)
		return
	}
	slog.Error(message, "err", err, "requestId", requestID)
	api.Fail(w, http.StatusInternalServerError, code, message, requestID)
}
