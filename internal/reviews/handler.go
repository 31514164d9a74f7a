package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
)

type Reviewer interface {
	Submit(ctx context.Context, p models.Principal, bookingID uuid.UUID, rating int, comment string) (*models.Review, error)
	ListBySitter(ctx context.Context, sitterID uuid.UUID) ([]*models.Review, error)
	Report(ctx context.Context, p models.Principal, bookingID uuid.UUID, reason, details string) (*models.Report, error)
}

type SubmitReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

type SubmitReportRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
	Reason    string    `json:"reason"`
	Details   string    `json:"details"`
}

type Handler struct {
	svc Reviewer
	log *slog.Logger
}

func NewHandler(svc Reviewer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// SubmitReview handles POST /api/v1/reviews.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	rv, err := h.svc.Submit(r.Context(), *p, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrBookingNotCompleted):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrReviewExists):
			writeError(w, http.StatusConflict, ErrReviewExists.Error())
		case errors.Is(err, ErrNotParticipant):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrBookingNotFound):
			writeError(w, http.StatusNotFound, ErrBookingNotFound.Error())
		default:
			h.log.Error("submit review", "booking_id", req.BookingID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to submit review")
		}
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

// ListSitterReviews handles GET /api/v1/sitters/{id}/reviews.
func (h *Handler) ListSitterReviews(w http.ResponseWriter, r *http.Request) {
	sitterID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sitter id")
		return
	}
	list, err := h.svc.ListBySitter(r.Context(), sitterID)
	if err != nil {
		h.log.Error("list reviews", "sitter_id", sitterID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	if list == nil {
		list = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, list)
}

// SubmitReport handles POST /api/v1/reports.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	rp, err := h.svc.Report(r.Context(), *p, req.BookingID, req.Reason, req.Details)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotParticipant):
			writeError(w, http.StatusForbidden, ErrNotParticipant.Error())
		case errors.Is(err, ErrBookingNotFound):
			writeError(w, http.StatusNotFound, ErrBookingNotFound.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, rp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
