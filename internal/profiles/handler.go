package profiles

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
)

type CreateProfileRequest struct {
	HourlyRateCents int64    `json:"hourly_rate_cents"`
	Bio             string   `json:"bio"`
	City            string   `json:"city"`
	Skills          []string `json:"skills"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// CreateProfile handles POST /api/v1/sitters (role sitter).
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if p.Role != models.RoleSitter {
		http.Error(w, `{"error":"only sitters can create a profile"}`, http.StatusForbidden)
		return
	}
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	profile, err := h.svc.CreateProfile(r.Context(), p.AccountID, req.HourlyRateCents, req.Bio, req.City, req.Skills)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRate):
			http.Error(w, `{"error":"hourly_rate_cents must be > 0"}`, http.StatusBadRequest)
		case errors.Is(err, ErrProfileExists):
			http.Error(w, `{"error":"profile already exists"}`, http.StatusConflict)
		default:
			h.log.Error("create sitter profile", "error", err)
			http.Error(w, `{"error":"failed to create profile"}`, http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// ListSitters handles GET /api/v1/sitters.
func (h *Handler) ListSitters(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListActive(r.Context())
	if err != nil {
		h.log.Error("list sitters", "error", err)
		http.Error(w, `{"error":"failed to list sitters"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.SitterProfile{}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
