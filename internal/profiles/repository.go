package profiles

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

// profileColumns includes the derived completed-bookings count and average
// rating, recomputed from bookings and reviews on every read instead of
// being maintained as counters.
const profileColumns = `
	sp.id, sp.account_id, sp.hourly_rate_cents, sp.bio, sp.skills, sp.city, sp.is_active,
	sp.created_at, sp.updated_at,
	(SELECT COUNT(*) FROM bookings b WHERE b.sitter_id = sp.account_id AND b.status = 'completed'),
	(SELECT AVG(rating)::float8 FROM reviews rv WHERE rv.sitter_id = sp.account_id)`

func (r *Repository) Create(ctx context.Context, p *models.SitterProfile) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO sitter_profiles (id, account_id, hourly_rate_cents, bio, skills, city, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, p.ID, p.AccountID, p.HourlyRateCents, p.Bio, p.Skills, p.City, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.SitterProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM sitter_profiles sp WHERE sp.account_id = $1
	`, accountID)
	return scanProfile(row)
}

func (r *Repository) ListActive(ctx context.Context) ([]*models.SitterProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM sitter_profiles sp WHERE sp.is_active ORDER BY sp.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.SitterProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p *models.SitterProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sitter_profiles SET hourly_rate_cents = $2, bio = $3, skills = $4, city = $5, is_active = $6, updated_at = now()
		WHERE id = $1
	`, p.ID, p.HourlyRateCents, p.Bio, p.Skills, p.City, p.IsActive)
	return err
}

func scanProfile(row pgx.Row) (*models.SitterProfile, error) {
	var p models.SitterProfile
	err := row.Scan(&p.ID, &p.AccountID, &p.HourlyRateCents, &p.Bio, &p.Skills, &p.City, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.CompletedBookings, &p.AvgRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}
