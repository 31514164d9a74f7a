package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lithammer/shortuuid/v3"

	"github.com/sitterlink/backend/internal/ledger"
	"github.com/sitterlink/backend/internal/models"
	"github.com/sitterlink/backend/internal/notify"
	"github.com/sitterlink/backend/internal/pricing"
)

var (
	// ErrBookingNotCompleted is returned when settlement is attempted
	// before the booking reaches completed.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrAlreadyPaid is returned when the booking's payment status is
	// already paid.
	ErrAlreadyPaid = errors.New("booking is already paid")

	// ErrNotPayer is returned when someone other than the booking's
	// parent tries to settle it.
	ErrNotPayer = errors.New("only the booking's parent can settle it")

	// ErrUnknownTransaction is returned for webhook callbacks whose
	// reference matches no open payment record.
	ErrUnknownTransaction = errors.New("unknown transaction reference")

	// ErrProcessor wraps failures talking to the external payment
	// processor. The record is rolled back; the client may retry.
	ErrProcessor = errors.New("payment processor error")
)

// TxBeginner is satisfied by pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repo is the payment-record persistence surface.
type Repo interface {
	Create(ctx context.Context, tx pgx.Tx, rec *models.PaymentRecord) error
	GetPendingByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.PaymentRecord, error)
	GetByRef(ctx context.Context, ref string) (*models.PaymentRecord, error)
	CompleteByRef(ctx context.Context, tx pgx.Tx, ref string, paidAt time.Time) (*models.PaymentRecord, error)
	CloseByRef(ctx context.Context, ref, status string) (bool, error)
}

// Bookings is the booking surface settlement needs.
type Bookings interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	SetPaymentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentStatus string) error
}

// ProcessorClient initiates an online checkout. Satisfied by
// gateway.Processor.
type ProcessorClient interface {
	Initiate(ctx context.Context, amountCents int64, ref string) (string, error)
}

// SettleResult is what a settlement attempt hands back. GatewayURL and
// TransactionRef are set only on the online path, where the money has not
// moved yet.
type SettleResult struct {
	Payment        *models.PaymentRecord
	Booking        *models.Booking
	GatewayURL     string
	TransactionRef string
}

type Service struct {
	db        TxBeginner
	repo      Repo
	bookings  Bookings
	ledger    ledger.Service
	processor ProcessorClient
	enqueue   notify.EnqueueFunc
	log       *slog.Logger
}

func NewService(db TxBeginner, repo Repo, bookings Bookings, ledgerSvc ledger.Service, processor ProcessorClient, enqueue notify.EnqueueFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, repo: repo, bookings: bookings, ledger: ledgerSvc, processor: processor, enqueue: enqueue, log: log}
}

// Settle records payment for a completed booking. Cash settles immediately:
// the payment record, the booking's payment status and the ledger entries
// commit in one transaction. Online only opens a pending record and a
// checkout session; money moves when the processor's confirm webhook lands.
//
// Calling Settle again while an online payment is pending re-opens a
// checkout for the same reference instead of minting a second record.
func (s *Service) Settle(ctx context.Context, p models.Principal, bookingID uuid.UUID, method string) (*SettleResult, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if p.AccountID != b.ParentID {
		return nil, ErrNotPayer
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrBookingNotCompleted, b.Status)
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}

	if open, err := s.repo.GetPendingByBookingID(ctx, bookingID); err != nil {
		return nil, err
	} else if open != nil {
		return s.reopenCheckout(ctx, b, open)
	}

	fee, earnings := pricing.ComputeSplit(b.TotalAmountCents)
	rec := &models.PaymentRecord{
		ID:                  uuid.New(),
		BookingID:           b.ID,
		AmountCents:         b.TotalAmountCents,
		PlatformFeeCents:    fee,
		SitterEarningsCents: earnings,
		Method:              method,
	}

	switch method {
	case models.PaymentMethodCash:
		return s.settleCash(ctx, b, rec)
	case models.PaymentMethodOnline:
		return s.settleOnline(ctx, b, rec)
	default:
		return nil, fmt.Errorf("unsupported payment method %q", method)
	}
}

func (s *Service) settleCash(ctx context.Context, b *models.Booking, rec *models.PaymentRecord) (*SettleResult, error) {
	now := time.Now()
	rec.Status = models.PaymentRecordCompleted
	rec.PaidAt = &now

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Create(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := s.bookings.SetPaymentStatus(ctx, tx, b.ID, models.PaymentStatusPaid); err != nil {
		return nil, err
	}
	if err := s.ledger.RecordSettlement(ctx, tx, b.ID, b.SitterID, rec.PlatformFeeCents, rec.SitterEarningsCents); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.PaymentStatus = models.PaymentStatusPaid
	s.notifyAsync(ctx, b.SitterID, "Payment received",
		fmt.Sprintf("Cash payment of %d cents was recorded; your earnings were credited.", rec.AmountCents))
	return &SettleResult{Payment: rec, Booking: b}, nil
}

func (s *Service) settleOnline(ctx context.Context, b *models.Booking, rec *models.PaymentRecord) (*SettleResult, error) {
	ref := "txn_" + shortuuid.New()
	rec.Status = models.PaymentRecordPending
	rec.TransactionRef = &ref

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Create(ctx, tx, rec); err != nil {
		return nil, err
	}
	// The record commits only if the processor accepted the session, so a
	// failed initiate leaves nothing pending behind.
	url, err := s.processor.Initiate(ctx, rec.AmountCents, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &SettleResult{Payment: rec, Booking: b, GatewayURL: url, TransactionRef: ref}, nil
}

func (s *Service) reopenCheckout(ctx context.Context, b *models.Booking, open *models.PaymentRecord) (*SettleResult, error) {
	if open.Method != models.PaymentMethodOnline || open.TransactionRef == nil {
		return nil, fmt.Errorf("booking has an open %s payment record", open.Method)
	}
	url, err := s.processor.Initiate(ctx, open.AmountCents, *open.TransactionRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	return &SettleResult{Payment: open, Booking: b, GatewayURL: url, TransactionRef: *open.TransactionRef}, nil
}

// Confirm finalizes an online payment after the processor reports success.
// The pending-to-completed move is a single conditional update, so replayed
// webhooks find no pending record and fall through to the idempotent no-op.
func (s *Service) Confirm(ctx context.Context, ref string) (*models.PaymentRecord, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec, err := s.repo.CompleteByRef(ctx, tx, ref, time.Now())
	if err != nil {
		return nil, err
	}
	if rec == nil {
		existing, err := s.repo.GetByRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status == models.PaymentRecordCompleted {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransaction, ref)
	}

	b, err := s.bookings.GetByID(ctx, rec.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.SetPaymentStatus(ctx, tx, rec.BookingID, models.PaymentStatusPaid); err != nil {
		return nil, err
	}
	if err := s.ledger.RecordSettlement(ctx, tx, rec.BookingID, b.SitterID, rec.PlatformFeeCents, rec.SitterEarningsCents); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifyAsync(ctx, b.SitterID, "Payment received",
		fmt.Sprintf("Online payment of %d cents cleared; your earnings were credited.", rec.AmountCents))
	s.notifyAsync(ctx, b.ParentID, "Payment confirmed",
		fmt.Sprintf("Your payment of %d cents went through.", rec.AmountCents))
	return rec, nil
}

// Fail marks a pending online payment as failed. The booking stays unpaid,
// so the parent can settle again.
func (s *Service) Fail(ctx context.Context, ref string) error {
	return s.close(ctx, ref, models.PaymentRecordFailed)
}

// Cancel marks a pending online payment as cancelled by the payer.
func (s *Service) Cancel(ctx context.Context, ref string) error {
	return s.close(ctx, ref, models.PaymentRecordCancelled)
}

func (s *Service) close(ctx context.Context, ref, status string) error {
	closed, err := s.repo.CloseByRef(ctx, ref, status)
	if err != nil {
		return err
	}
	if closed {
		return nil
	}
	existing, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return err
	}
	// Replayed callback for a record already in its final state.
	if existing != nil && existing.Status == status {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownTransaction, ref)
}

func (s *Service) notifyAsync(ctx context.Context, accountID uuid.UUID, subject, body string) {
	if s.enqueue == nil {
		return
	}
	if err := s.enqueue(ctx, notify.SendArgs{AccountID: accountID, Subject: subject, Body: body}); err != nil {
		s.log.Error("enqueue notification", "account_id", accountID, "error", err)
	}
}
