package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitterlink/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const paymentColumns = `
	id, booking_id, amount_cents, platform_fee_cents, sitter_earnings_cents,
	method, status, transaction_ref, paid_at, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, tx pgx.Tx, rec *models.PaymentRecord) error {
	return tx.QueryRow(ctx, `
		INSERT INTO payments (id, booking_id, amount_cents, platform_fee_cents, sitter_earnings_cents,
			method, status, transaction_ref, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, rec.ID, rec.BookingID, rec.AmountCents, rec.PlatformFeeCents, rec.SitterEarningsCents,
		rec.Method, rec.Status, rec.TransactionRef, rec.PaidAt).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// GetPendingByBookingID returns the booking's open payment record, or nil
// when it has none. Failed and cancelled records do not count as open.
func (r *Repository) GetPendingByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.PaymentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE booking_id = $1 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1
	`, bookingID)
	rec, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *Repository) GetByRef(ctx context.Context, ref string) (*models.PaymentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE transaction_ref = $1
	`, ref)
	rec, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// CompleteByRef moves the record for ref from pending to completed in one
// conditional update. Returns nil, nil when no pending record matched, which
// makes duplicate webhook deliveries converge on the same final state.
func (r *Repository) CompleteByRef(ctx context.Context, tx pgx.Tx, ref string, paidAt time.Time) (*models.PaymentRecord, error) {
	row := tx.QueryRow(ctx, `
		UPDATE payments SET status = 'completed', paid_at = $2, updated_at = now()
		WHERE transaction_ref = $1 AND status = 'pending'
		RETURNING `+paymentColumns+`
	`, ref, paidAt)
	rec, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// CloseByRef moves the record for ref from pending to a closed status
// (failed or cancelled). Returns false when no pending record matched.
func (r *Repository) CloseByRef(ctx context.Context, ref, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = now()
		WHERE transaction_ref = $1 AND status = 'pending'
	`, ref, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPayment(row pgx.Row) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := row.Scan(&rec.ID, &rec.BookingID, &rec.AmountCents, &rec.PlatformFeeCents, &rec.SitterEarningsCents,
		&rec.Method, &rec.Status, &rec.TransactionRef, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
