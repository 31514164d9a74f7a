package ledger

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sitterlink/backend/internal/models"
)

// AccountRepo is the minimal account surface the ledger needs.
type AccountRepo interface {
	LockAccount(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	AddBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amountCents int64) (int64, error)
	CreateEntry(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error
}

type Service interface {
	RecordSettlement(ctx context.Context, tx pgx.Tx, bookingID, sitterAccountID uuid.UUID, platformFeeCents, sitterEarningsCents int64) error
}

// service writes the fee split of a settled booking as ledger entries and
// account balance updates.
type service struct {
	repo AccountRepo
}

func NewService(repo AccountRepo) *service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

// RecordSettlement credits the sitter's earnings and the platform's fee,
// with one ledger entry each. Call within a transaction. Accounts are
// locked in deterministic order (by UUID) to avoid deadlock.
func (s *service) RecordSettlement(ctx context.Context, tx pgx.Tx, bookingID, sitterAccountID uuid.UUID, platformFeeCents, sitterEarningsCents int64) error {
	ids := []uuid.UUID{sitterAccountID, models.SystemPlatformAccountID}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		if err := s.repo.LockAccount(ctx, tx, id); err != nil {
			return err
		}
	}

	newSitter, err := s.repo.AddBalance(ctx, tx, sitterAccountID, sitterEarningsCents)
	if err != nil {
		return err
	}
	if err := s.repo.CreateEntry(ctx, tx, &models.LedgerEntry{
		ID: uuid.New(), AccountID: sitterAccountID, BookingID: &bookingID,
		EntryType: models.LedgerEntrySitterEarning, AmountCents: sitterEarningsCents, BalanceAfterCents: int64Ptr(newSitter),
	}); err != nil {
		return err
	}

	newPlatform, err := s.repo.AddBalance(ctx, tx, models.SystemPlatformAccountID, platformFeeCents)
	if err != nil {
		return err
	}
	return s.repo.CreateEntry(ctx, tx, &models.LedgerEntry{
		ID: uuid.New(), AccountID: models.SystemPlatformAccountID, BookingID: &bookingID,
		EntryType: models.LedgerEntryPlatformFee, AmountCents: platformFeeCents, BalanceAfterCents: int64Ptr(newPlatform),
	})
}

func int64Ptr(n int64) *int64 { return &n }
