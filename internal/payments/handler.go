package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/booking"
	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
)

// Settler is the subset of the service the handler calls.
type Settler interface {
	Settle(ctx context.Context, p models.Principal, bookingID uuid.UUID, method string) (*SettleResult, error)
	Confirm(ctx context.Context, ref string) (*models.PaymentRecord, error)
	Fail(ctx context.Context, ref string) error
	Cancel(ctx context.Context, ref string) error
}

type InitPaymentRequest struct {
	BookingID   uuid.UUID `json:"booking_id"`
	PaymentType string    `json:"payment_type"`
}

type Handler struct {
	svc Settler
	log *slog.Logger
}

func NewHandler(svc Settler, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// InitPayment handles POST /api/v1/payments/init-payment. Cash returns the
// settled payment and booking; online returns the checkout redirect.
func (h *Handler) InitPayment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req InitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.PaymentType != models.PaymentMethodCash && req.PaymentType != models.PaymentMethodOnline {
		writeError(w, http.StatusBadRequest, "payment_type must be cash or online")
		return
	}

	res, err := h.svc.Settle(r.Context(), *p, req.BookingID, req.PaymentType)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, ErrNotPayer):
			writeError(w, http.StatusForbidden, ErrNotPayer.Error())
		case errors.Is(err, ErrBookingNotCompleted):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAlreadyPaid):
			writeError(w, http.StatusBadRequest, ErrAlreadyPaid.Error())
		case errors.Is(err, ErrProcessor):
			h.log.Error("initiate checkout", "booking_id", req.BookingID, "error", err)
			writeError(w, http.StatusBadGateway, "payment processor unavailable")
		default:
			h.log.Error("settle booking", "booking_id", req.BookingID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to settle payment")
		}
		return
	}

	if res.GatewayURL != "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"paymentType":   models.PaymentMethodOnline,
			"gatewayUrl":    res.GatewayURL,
			"transactionId": res.TransactionRef,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paymentType": models.PaymentMethodCash,
		"payment":     res.Payment,
		"booking":     res.Booking,
	})
}

// Webhook endpoints are called by the processor, not by users, so they sit
// outside the JWT middleware.

func (h *Handler) WebhookConfirm(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.webhookRef(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Confirm(r.Context(), ref)
	if err != nil {
		h.webhookError(w, ref, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) WebhookFail(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.webhookRef(w, r)
	if !ok {
		return
	}
	if err := h.svc.Fail(r.Context(), ref); err != nil {
		h.webhookError(w, ref, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WebhookCancel(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.webhookRef(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), ref); err != nil {
		h.webhookError(w, ref, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) webhookRef(w http.ResponseWriter, r *http.Request) (string, bool) {
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return "", false
	}
	if err := webhookSchema.Validate(raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return "", false
	}
	ref := raw.(map[string]any)["transaction_ref"].(string)
	return ref, true
}

func (h *Handler) webhookError(w http.ResponseWriter, ref string, err error) {
	if errors.Is(err, ErrUnknownTransaction) {
		writeError(w, http.StatusNotFound, ErrUnknownTransaction.Error())
		return
	}
	h.log.Error("process webhook", "transaction_ref", ref, "error", err)
	writeError(w, http.StatusInternalServerError, "failed to process webhook")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
