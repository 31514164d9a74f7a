package ledger

import (
	"context"

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

// LockAccount locks the account row for update. Call within a transaction.
func (r *Repository) LockAccount(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT 1 FROM accounts WHERE id = $1 FOR UPDATE`, id)
	return err
}

// AddBalance credits amount to the account and returns the new balance.
func (r *Repository) AddBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amountCents int64) (newBalance int64, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE accounts SET balance_cents = balance_cents + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance_cents
	`, amountCents, id).Scan(&newBalance)
	return newBalance, err
}

// CreateEntry inserts a ledger entry inside the given transaction.
func (r *Repository) CreateEntry(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (id, account_id, booking_id, entry_type, amount_cents, balance_after_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, e.ID, e.AccountID, e.BookingID, e.EntryType, e.AmountCents, e.BalanceAfterCents).Scan(&e.CreatedAt)
}

func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, booking_id, entry_type, amount_cents, balance_after_cents, created_at
		FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.BookingID, &e.EntryType, &e.AmountCents, &e.BalanceAfterCents, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumByAccountAndType totals entries of one type for an account.
func (r *Repository) SumByAccountAndType(ctx context.Context, accountID uuid.UUID, entryType string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM ledger_entries WHERE account_id = $1 AND entry_type = $2
	`, accountID, entryType).Scan(&total)
	return total, err
}
