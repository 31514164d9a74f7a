package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
)

var (
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrNotParticipant      = errors.New("not a party to this booking")
	ErrReviewExists        = errors.New("booking already has a review")
	ErrBookingNotFound     = errors.New("booking not found")
)

// Repo is the review persistence surface.
type Repo interface {
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ListBySitter(ctx context.Context, sitterID uuid.UUID) ([]*models.Review, error)
	SetSentiment(ctx context.Context, id uuid.UUID, score float64) error
	CreateReport(ctx context.Context, rp *models.Report) error
}

// BookingReader resolves the booking a review or report refers to.
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// EnqueueScore schedules the asynchronous sentiment pass for a review.
type EnqueueScore func(ctx context.Context, args ScoreReviewArgs) error

type Service struct {
	repo     Repo
	bookings BookingReader
	enqueue  EnqueueScore
	log      *slog.Logger
}

func NewService(repo Repo, bookings BookingReader, enqueue EnqueueScore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, bookings: bookings, enqueue: enqueue, log: log}
}

// Submit creates the parent's review of a completed booking. At most one
// review per booking. The sentiment score is filled in asynchronously.
func (s *Service) Submit(ctx context.Context, p models.Principal, bookingID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if p.AccountID != b.ParentID {
		return nil, fmt.Errorf("%w: only the booking's parent can review", ErrNotParticipant)
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}
	if existing, err := s.repo.GetByBookingID(ctx, bookingID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrReviewExists
	}

	rv := &models.Review{
		ID:        uuid.New(),
		BookingID: bookingID,
		SitterID:  b.SitterID,
		ParentID:  b.ParentID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	if s.enqueue != nil && comment != "" {
		if err := s.enqueue(ctx, ScoreReviewArgs{ReviewID: rv.ID}); err != nil {
			s.log.Error("enqueue sentiment scoring", "review_id", rv.ID, "error", err)
		}
	}
	return rv, nil
}

func (s *Service) ListBySitter(ctx context.Context, sitterID uuid.UUID) ([]*models.Review, error) {
	return s.repo.ListBySitter(ctx, sitterID)
}

// Report files a complaint about the other party of a booking. Either party
// can report; the reported account is inferred, never client-supplied.
func (s *Service) Report(ctx context.Context, p models.Principal, bookingID uuid.UUID, reason, details string) (*models.Report, error) {
	if reason == "" {
		return nil, errors.New("reason is required")
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	var reported uuid.UUID
	switch p.AccountID {
	case b.ParentID:
		reported = b.SitterID
	case b.SitterID:
		reported = b.ParentID
	default:
		return nil, ErrNotParticipant
	}

	rp := &models.Report{
		ID:         uuid.New(),
		BookingID:  bookingID,
		ReporterID: p.AccountID,
		ReportedID: reported,
		Reason:     reason,
		Details:    details,
		Status:     models.ReportOpen,
	}
	if err := s.repo.CreateReport(ctx, rp); err != nil {
		return nil, err
	}
	return rp, nil
}
