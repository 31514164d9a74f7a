// Package dashboard serves the account-facing read views: who am I, what
// have I earned, what moved on my ledger. It owns no state of its own.
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
)

type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type LedgerReader interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.LedgerEntry, error)
	SumByAccountAndType(ctx context.Context, accountID uuid.UUID, entryType string) (int64, error)
}

type BookingReader interface {
	ListByParticipant(ctx context.Context, accountID uuid.UUID) ([]*models.Booking, error)
}

type EarningsSummary struct {
	BalanceCents       int64 `json:"balance_cents"`
	TotalEarningsCents int64 `json:"total_earnings_cents"`
	RefundedCents      int64 `json:"refunded_cents"`
	CompletedBookings  int   `json:"completed_bookings"`
}

type Handler struct {
	accounts AccountReader
	ledger   LedgerReader
	bookings BookingReader
	log      *slog.Logger
}

func NewHandler(accounts AccountReader, ledger LedgerReader, bookings BookingReader, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{accounts: accounts, ledger: ledger, bookings: bookings, log: log}
}

// Me handles GET /api/v1/account/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	account, err := h.accounts.GetByID(r.Context(), p.AccountID)
	if err != nil {
		h.log.Error("load account", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Earnings handles GET /api/v1/account/earnings.
func (h *Handler) Earnings(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	account, err := h.accounts.GetByID(r.Context(), p.AccountID)
	if err != nil {
		h.log.Error("load account", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}
	earned, err := h.ledger.SumByAccountAndType(r.Context(), p.AccountID, models.LedgerEntrySitterEarning)
	if err != nil {
		h.log.Error("sum earnings", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load earnings")
		return
	}
	refunded, err := h.ledger.SumByAccountAndType(r.Context(), p.AccountID, models.LedgerEntryRefund)
	if err != nil {
		h.log.Error("sum refunds", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load earnings")
		return
	}
	completed, err := h.completedCount(r.Context(), p.AccountID)
	if err != nil {
		h.log.Error("count completed bookings", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load earnings")
		return
	}

	writeJSON(w, http.StatusOK, EarningsSummary{
		BalanceCents:       account.BalanceCents,
		TotalEarningsCents: earned,
		RefundedCents:      refunded,
		CompletedBookings:  completed,
	})
}

// Ledger handles GET /api/v1/account/ledger.
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	entries, err := h.ledger.ListByAccount(r.Context(), p.AccountID)
	if err != nil {
		h.log.Error("list ledger", "account_id", p.AccountID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ledger")
		return
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) completedCount(ctx context.Context, accountID uuid.UUID) (int, error) {
	list, err := h.bookings.ListByParticipant(ctx, accountID)
	if err != nil {
		return 0, err
	}
	var n int
	for _, b := range list {
		if b.Status == models.BookingStatusCompleted {
			n++
		}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
