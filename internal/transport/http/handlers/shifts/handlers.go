package shiftshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tiptrack/internal/domain/employer"
	"tiptrack/internal/domain/profile"
	"tiptrack/internal/domain/shift"
	"tiptrack/internal/transport/http/api"
	"tiptrack/internal/transport/http/middleware"
	"tiptrack/internal/transport/http/shared"
)

type Handler struct {
	Service  *shift.Service
	Profiles profile.StoreAPI
}

func NewHandler(service *shift.Service, profiles profile.StoreAPI) *Handler {
	return &Handler{Service: service, Profiles: profiles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{shiftID}", h.handleGet)
		r.Delete("/{shiftID}", h.handleDelete)
		r.Patch("/{shiftID}/status", h.handleUpdateStatus)
		r.Post("/{shiftID}/missed", h.handleMarkMissed)
		r.Post("/{shiftID}/entry", h.handleRecordActuals)
		r.Put("/{shiftID}/entry", h.handleUpdateEntry)
		r.Delete("/entries/{entryID}", h.handleDeleteEntry)
	})
}

type completedShiftPayload struct {
	Shift    shift.CompletedShift `json:"shift"`
	Earnings shift.Earnings       `json:"earnings"`
}

type createShiftRequest struct {
	EmployerID        *string  `json:"employerId"`
	Date              string   `json:"date"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	LunchBreakMinutes int      `json:"lunchBreakMinutes"`
	HourlyRate        float64  `json:"hourlyRate"`
	SalesTarget       *float64 `json:"salesTarget"`
	Notes             string   `json:"notes"`
}

type entryRequest struct {
	ActualStartTime   string  `json:"actualStartTime"`
	ActualEndTime     string  `json:"actualEndTime"`
	EndDate           *string `json:"endDate"`
	LunchBreakMinutes int     `json:"lunchBreakMinutes"`
	Sales             float64 `json:"sales"`
	Tips              float64 `json:"tips"`
	CashOut           float64 `json:"cashOut"`
	Other             float64 `json:"other"`
	Notes             string  `json:"notes"`
	EmployerID        *string `json:"employerId"`
	Resnapshot        bool    `json:"resnapshot"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	from, okFrom := v.Date("from", r.URL.Query().Get("from"))
	to, okTo := v.Date("to", r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		_ = v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}

	completed, err := h.Service.ListCompletedShifts(r.Context(), user.UserID, from, to)
	if err != nil {
		h.respondError(w, r, err, "shift_list_failed", "failed to list shifts")
		return
	}

	prof, err := h.Profiles.Get(r.Context(), user.UserID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		h.respondError(w, r, err, "shift_list_failed", "failed to list shifts")
		return
	}

	payload := make([]completedShiftPayload, 0, len(completed))
	for _, c := range completed {
		payload = append(payload, completedShiftPayload{
			Shift:    c,
			Earnings: c.Earnings(prof.DefaultHourlyRate, prof.AverageDeductionPercentage),
		})
	}
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	date, okDate := v.Date("date", payload.Date)
	v.Required("startTime", payload.StartTime, "is required")
	v.Required("endTime", payload.EndTime, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) || !okDate {
		return
	}

	created, err := h.Service.CreateExpectedShift(r.Context(), shift.CreateShiftInput{
		UserID:            user.UserID,
		EmployerID:        payload.EmployerID,
		Date:              date,
		StartTime:         payload.StartTime,
		EndTime:           payload.EndTime,
		LunchBreakMinutes: payload.LunchBreakMinutes,
		HourlyRate:        payload.HourlyRate,
		SalesTarget:       payload.SalesTarget,
		Notes:             payload.Notes,
	})
	if err != nil {
		h.respondError(w, r, err, "shift_create_failed", "failed to create shift")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	completed, err := h.Service.GetCompletedShift(r.Context(), user.UserID, chi.URLParam(r, "shiftID"))
	if err != nil {
		h.respondError(w, r, err, "shift_get_failed", "failed to load shift")
		return
	}

	prof, err := h.Profiles.Get(r.Context(), user.UserID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		h.respondError(w, r, err, "shift_get_failed", "failed to load shift")
		return
	}
	api.Success(w, completedShiftPayload{
		Shift:    completed,
		Earnings: completed.Earnings(prof.DefaultHourlyRate, prof.AverageDeductionPercentage),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.DeleteExpectedShift(r.Context(), user.UserID, chi.URLParam(r, "shiftID")); err != nil {
		h.respondError(w, r, err, "shift_delete_failed", "failed to delete shift")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), user.UserID, chi.URLParam(r, "shiftID"), payload.Status); err != nil {
		h.respondError(w, r, err, "shift_status_failed", "failed to update shift status")
		return
	}
	api.Success(w, map[string]string{"status": payload.Status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkMissed(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.MarkMissed(r.Context(), user.UserID, chi.URLParam(r, "shiftID"), payload.Reason); err != nil {
		h.respondError(w, r, err, "shift_missed_failed", "failed to mark shift missed")
		return
	}
	api.Success(w, map[string]string{"status": shift.StatusMissed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecordActuals(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	in, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	in.UserID = user.UserID
	in.ShiftID = chi.URLParam(r, "shiftID")

	entry, err := h.Service.RecordActuals(r.Context(), in.RecordActualsInput)
	if err != nil {
		h.respondError(w, r, err, "entry_create_failed", "failed to record shift entry")
		return
	}
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	in, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	in.UserID = user.UserID
	in.ShiftID = chi.URLParam(r, "shiftID")

	entry, err := h.Service.UpdateEntry(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err, "entry_update_failed", "failed to update shift entry")
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), user.UserID, chi.URLParam(r, "entryID")); err != nil {
		h.respondError(w, r, err, "entry_delete_failed", "failed to delete shift entry")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeEntry(w http.ResponseWriter, r *http.Request) (shift.UpdateEntryInput, bool) {
	var payload entryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return shift.UpdateEntryInput{}, false
	}

	v := shared.NewValidator()
	v.Required("actualStartTime", payload.ActualStartTime, "is required")
	v.Required("actualEndTime", payload.ActualEndTime, "is required")
	var endDate *time.Time
	if payload.EndDate != nil {
		parsed, ok := v.Date("endDate", *payload.EndDate)
		if ok {
			endDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return shift.UpdateEntryInput{}, false
	}

	return shift.UpdateEntryInput{
		RecordActualsInput: shift.RecordActualsInput{
			ActualStartTime:   payload.ActualStartTime,
			ActualEndTime:     payload.ActualEndTime,
			EndDate:           endDate,
			LunchBreakMinutes: payload.LunchBreakMinutes,
			Sales:             payload.Sales,
			Tips:              payload.Tips,
			CashOut:           payload.CashOut,
			Other:             payload.Other,
			Notes:             payload.Notes,
		},
		EmployerID: payload.EmployerID,
		Resnapshot: payload.Resnapshot,
	}, true
}

// respondError translates the core error taxonomy: validation problems are
// field-level 400s, illegal transitions surface generically and get logged,
// everything else is a retryable failure.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())

	var validationErr *shift.ValidationError
	if errors.As(err, &validationErr) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{
			{Field: validationErr.Field, Reason: validationErr.Reason},
		})
		return
	}

	var stateErr *shift.InvalidStateError
	if errors.As(err, &stateErr) {
		slog.Error("invalid shift state transition", "from", stateErr.From, "to", stateErr.To, "requestId", requestID)
		api.Fail(w, http.StatusConflict, "invalid_state", "something went wrong", requestID)
		return
	}

	switch {
	case errors.Is(err, shift.ErrShiftNotFound), errors.Is(err, shift.ErrEntryNotFound), errors.Is(err, employer.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, shift.ErrEntryExists):
		api.Fail(w, http.StatusConflict, "entry_exists", "shift already has an entry", requestID)
	default:
		slog.Error(message, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
