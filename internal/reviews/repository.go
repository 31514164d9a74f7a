package reviews

import (
	"context"
	"errors"

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

const reviewColumns = `id, booking_id, sitter_id, parent_id, rating, comment, sentiment_score, created_at`

func (r *Repository) Create(ctx context.Context, rv *models.Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, booking_id, sitter_id, parent_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rv.ID, rv.BookingID, rv.SitterID, rv.ParentID, rv.Rating, rv.Comment).Scan(&rv.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	return scanReview(row)
}

// GetByBookingID returns nil, nil when the booking has no review yet.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1`, bookingID)
	rv, err := scanReview(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rv, err
}

func (r *Repository) ListBySitter(ctx context.Context, sitterID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE sitter_id = $1 ORDER BY created_at DESC
	`, sitterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}

func (r *Repository) SetSentiment(ctx context.Context, id uuid.UUID, score float64) error {
	_, err := r.pool.Exec(ctx, `UPDATE reviews SET sentiment_score = $2 WHERE id = $1`, id, score)
	return err
}

func (r *Repository) CreateReport(ctx context.Context, rp *models.Report) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reports (id, booking_id, reporter_id, reported_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, rp.ID, rp.BookingID, rp.ReporterID, rp.ReportedID, rp.Reason, rp.Details, rp.Status).Scan(&rp.CreatedAt)
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.BookingID, &rv.SitterID, &rv.ParentID, &rv.Rating, &rv.Comment, &rv.SentimentScore, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
