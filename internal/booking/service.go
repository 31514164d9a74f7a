package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
	"github.com/sitterlink/backend/internal/notify"
	"github.com/sitterlink/backend/internal/pricing"
	"github.com/sitterlink/backend/internal/profiles"
	"github.com/sitterlink/backend/internal/schedule"
)

// ErrValidation wraps malformed-input failures: bad time format, inverted
// window, missing fields. Never retried.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when the sitter already holds an overlapping slot.
var ErrConflict = errors.New("sitter is not available for this time slot")

// ErrNotFound is returned when the booking does not exist.
var ErrNotFound = errors.New("booking not found")

// ErrSitterNotFound is returned when the requested sitter has no active profile.
var ErrSitterNotFound = errors.New("sitter not found")

// ErrForbidden is returned when the principal is not permitted to drive the
// requested transition or view the booking.
var ErrForbidden = errors.New("not allowed for this account")

// IllegalTransitionError reports a transition the state machine does not
// define, including everything requested on a terminal booking.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.From, e.To)
}

// Repo is the booking persistence surface the service needs.
type Repo interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListBySitterAndDate(ctx context.Context, sitterID uuid.UUID, date time.Time) ([]*models.Booking, error)
	ListByParticipant(ctx context.Context, accountID uuid.UUID) ([]*models.Booking, error)
}

// SitterDirectory resolves a sitter's profile (for the rate snapshot).
type SitterDirectory interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.SitterProfile, error)
}

type Service struct {
	repo    Repo
	sitters SitterDirectory
	checker *schedule.Checker
	enqueue notify.EnqueueFunc
	log     *slog.Logger
}

func NewService(repo Repo, sitters SitterDirectory, checker *schedule.Checker, enqueue notify.EnqueueFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, sitters: sitters, checker: checker, enqueue: enqueue, log: log}
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

// actorRule decides whether a principal may drive a given transition on a
// given booking. The sitter rules also bind the actor to the booked sitter,
// the parent rules to the booking's parent.
type actorRule func(p models.Principal, b *models.Booking) bool

func bookedSitter(p models.Principal, b *models.Booking) bool {
	return p.Role == models.RoleSitter && p.AccountID == b.SitterID
}

func bookingParent(p models.Principal, b *models.Booking) bool {
	return p.Role == models.RoleParent && p.AccountID == b.ParentID
}

func eitherParty(p models.Principal, b *models.Booking) bool {
	return bookedSitter(p, b) || bookingParent(p, b)
}

type transitionKey struct {
	from, to string
}

// transitions is the whole lifecycle. Anything not listed here is illegal,
// which makes completed, cancelled and rejected terminal.
var transitions = map[transitionKey]actorRule{
	{models.BookingStatusPending, models.BookingStatusConfirmed}:   bookedSitter,
	{models.BookingStatusPending, models.BookingStatusRejected}:    bookedSitter,
	{models.BookingStatusPending, models.BookingStatusCancelled}:   bookingParent,
	{models.BookingStatusConfirmed, models.BookingStatusCompleted}: eitherParty,
	{models.BookingStatusConfirmed, models.BookingStatusCancelled}: eitherParty,
}

// AllowedTransitions returns the statuses p may drive b into from its
// current state. Drives both the Transition check and UI affordances.
func AllowedTransitions(p models.Principal, b *models.Booking) []string {
	var out []string
	for key, permitted := range transitions {
		if key.from == b.Status && permitted(p, b) {
			out = append(out, key.to)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

type CreateParams struct {
	SitterID            uuid.UUID
	Date                time.Time
	StartTime           string
	EndTime             string
	Address             string
	SpecialInstructions string
}

// Create validates the candidate window, checks the sitter's availability,
// snapshots the rate, and persists a pending booking.
//
// The availability read and the insert are not atomic: two overlapping
// requests racing here can both land as pending. Accepted; the sitter's
// confirm re-validates, so at most one of them can reach confirmed.
func (s *Service) Create(ctx context.Context, p models.Principal, params CreateParams) (*models.Booking, error) {
	if p.Role != models.RoleParent {
		return nil, fmt.Errorf("%w: only parents create bookings", ErrForbidden)
	}
	if params.SitterID == uuid.Nil {
		return nil, fmt.Errorf("%w: sitter_id is required", ErrValidation)
	}
	if params.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if params.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	hours, err := schedule.Duration(params.StartTime, params.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	profile, err := s.sitters.GetByAccountID(ctx, params.SitterID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return nil, ErrSitterNotFound
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrSitterNotFound
	}

	existing, err := s.repo.ListBySitterAndDate(ctx, params.SitterID, params.Date)
	if err != nil {
		return nil, err
	}
	if !s.checker.IsAvailable(params.SitterID, params.Date, params.StartTime, params.EndTime, existing) {
		return nil, ErrConflict
	}

	hours = math.Round(hours*10) / 10
	b := &models.Booking{
		ID:                  uuid.New(),
		ParentID:            p.AccountID,
		SitterID:            params.SitterID,
		Date:                params.Date,
		StartTime:           params.StartTime,
		EndTime:             params.EndTime,
		DurationHours:       hours,
		HourlyRateCents:     profile.HourlyRateCents,
		TotalAmountCents:    pricing.ComputeTotal(hours, profile.HourlyRateCents),
		Status:              models.BookingStatusPending,
		PaymentStatus:       models.PaymentStatusPending,
		Address:             params.Address,
		SpecialInstructions: params.SpecialInstructions,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notifyAsync(ctx, b.SitterID, "New booking request",
		fmt.Sprintf("You have a booking request for %s %s-%s.", b.Date.Format("2006-01-02"), b.StartTime, b.EndTime))
	return b, nil
}

// Transition moves the booking to target on behalf of p, enforcing the
// lifecycle table. Completing a booking does not touch its payment status;
// settlement is a separate, explicit step.
func (s *Service) Transition(ctx context.Context, p models.Principal, id uuid.UUID, target string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	permitted, defined := transitions[transitionKey{from: b.Status, to: target}]
	if !defined {
		return nil, &IllegalTransitionError{From: b.Status, To: target}
	}
	if !permitted(p, b) {
		return nil, fmt.Errorf("%w: %s may not move booking from %s to %s", ErrForbidden, p.Role, b.Status, target)
	}

	if target == models.BookingStatusConfirmed {
		// Re-validate the slot: another booking may have been confirmed
		// since the optimistic check at creation time.
		existing, err := s.repo.ListBySitterAndDate(ctx, b.SitterID, b.Date)
		if err != nil {
			return nil, err
		}
		others := existing[:0:0]
		for _, e := range existing {
			if e.ID != b.ID {
				others = append(others, e)
			}
		}
		if !s.checker.IsAvailable(b.SitterID, b.Date, b.StartTime, b.EndTime, others) {
			return nil, ErrConflict
		}
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, target); err != nil {
		return nil, err
	}
	b.Status = target
	b.UpdatedAt = time.Now()

	s.notifyTransition(ctx, b)
	return b, nil
}

// Get returns the booking if p is one of its parties.
func (s *Service) Get(ctx context.Context, p models.Principal, id uuid.UUID) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AccountID != b.ParentID && p.AccountID != b.SitterID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListForPrincipal returns every booking the account participates in.
func (s *Service) ListForPrincipal(ctx context.Context, p models.Principal) ([]*models.Booking, error) {
	return s.repo.ListByParticipant(ctx, p.AccountID)
}

func (s *Service) notifyTransition(ctx context.Context, b *models.Booking) {
	when := fmt.Sprintf("%s %s-%s", b.Date.Format("2006-01-02"), b.StartTime, b.EndTime)
	switch b.Status {
	case models.BookingStatusConfirmed:
		s.notifyAsync(ctx, b.ParentID, "Booking confirmed", fmt.Sprintf("Your booking for %s was confirmed.", when))
	case models.BookingStatusRejected:
		s.notifyAsync(ctx, b.ParentID, "Booking declined", fmt.Sprintf("Your booking for %s was declined.", when))
	case models.BookingStatusCancelled:
		s.notifyAsync(ctx, b.ParentID, "Booking cancelled", fmt.Sprintf("The booking for %s was cancelled.", when))
		s.notifyAsync(ctx, b.SitterID, "Booking cancelled", fmt.Sprintf("The booking for %s was cancelled.", when))
	case models.BookingStatusCompleted:
		s.notifyAsync(ctx, b.ParentID, "Booking completed", "Please settle the payment and consider leaving a review.")
		s.notifyAsync(ctx, b.SitterID, "Booking completed", fmt.Sprintf("The booking for %s is complete.", when))
	}
}

// notifyAsync enqueues a fire-and-forget notification; failures are logged,
// never surfaced.
func (s *Service) notifyAsync(ctx context.Context, accountID uuid.UUID, subject, body string) {
	if s.enqueue == nil {
		return
	}
	if err := s.enqueue(ctx, notify.SendArgs{AccountID: accountID, Subject: subject, Body: body}); err != nil {
		s.log.Error("enqueue notification", "account_id", accountID, "error", err)
	}
}
