package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
)

// Lifecycle is the subset of the service the handler calls. Narrowed so
// handler tests can stub it without a database.
type Lifecycle interface {
	Create(ctx context.Context, p models.Principal, params CreateParams) (*models.Booking, error)
	Transition(ctx context.Context, p models.Principal, id uuid.UUID, target string) (*models.Booking, error)
	Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error)
	ListForPrincipal(ctx context.Context, p models.Principal) ([]*models.Booking, error)
}

type CreateBookingRequest struct {
	SitterID            uuid.UUID `json:"sitter_id"`
	Date                string    `json:"date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	Address             string    `json:"address"`
	SpecialInstructions string    `json:"special_instructions"`
}

type UpdateBookingRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	svc Lifecycle
	log *slog.Logger
}

func NewHandler(svc Lifecycle, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// CreateBooking handles POST /api/v1/bookings (role parent).
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, `{"error":"date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), *p, CreateParams{
		SitterID:            req.SitterID,
		Date:                date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Address:             req.Address,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrConflict):
			writeError(w, http.StatusBadRequest, ErrConflict.Error())
		case errors.Is(err, ErrSitterNotFound):
			writeError(w, http.StatusNotFound, ErrSitterNotFound.Error())
		case errors.Is(err, ErrForbidden):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			h.log.Error("create booking", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBooking handles PUT /api/v1/bookings/{id} with a target status.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	b, err := h.svc.Transition(r.Context(), *p, id, req.Status)
	if err != nil {
		var illegal *IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			writeError(w, http.StatusBadRequest, illegal.Error())
		case errors.Is(err, ErrForbidden):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrConflict):
			writeError(w, http.StatusConflict, "slot no longer available")
		default:
			h.log.Error("update booking", "booking_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update booking")
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetBooking handles GET /api/v1/bookings/{id}.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	b, err := h.svc.Get(r.Context(), *p, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrForbidden):
			writeError(w, http.StatusForbidden, "not a party to this booking")
		default:
			h.log.Error("get booking", "booking_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load booking")
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListBookings handles GET /api/v1/bookings for the authenticated account.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListForPrincipal(r.Context(), *p)
	if err != nil {
		h.log.Error("list bookings", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if list == nil {
		list = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
