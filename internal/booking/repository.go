package booking

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

const bookingColumns = `
	id, parent_id, sitter_id, date, start_time, end_time, duration_hours,
	hourly_rate_cents, total_amount_cents, status, payment_status,
	address, special_instructions, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, parent_id, sitter_id, date, start_time, end_time, duration_hours,
			hourly_rate_cents, total_amount_cents, status, payment_status, address, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, b.ID, b.ParentID, b.SitterID, b.Date, b.StartTime, b.EndTime, b.DurationHours,
		b.HourlyRateCents, b.TotalAmountCents, b.Status, b.PaymentStatus,
		b.Address, b.SpecialInstructions).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentStatus runs inside the settlement transaction so the booking's
// payment status and the payment record move together.
func (r *Repository) SetPaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentStatus string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET payment_status = $2, updated_at = now() WHERE id = $1
	`, id, paymentStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListBySitterAndDate(ctx context.Context, sitterID uuid.UUID, date time.Time) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE sitter_id = $1 AND date = $2
	`, sitterID, date)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *Repository) ListByParticipant(ctx context.Context, accountID uuid.UUID) ([]*models.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE parent_id = $1 OR sitter_id = $1
		ORDER BY date DESC, start_time DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*models.Booking, error) {
	defer rows.Close()
	var list []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.ParentID, &b.SitterID, &b.Date, &b.StartTime, &b.EndTime, &b.DurationHours,
		&b.HourlyRateCents, &b.TotalAmountCents, &b.Status, &b.PaymentStatus,
		&b.Address, &b.SpecialInstructions, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
