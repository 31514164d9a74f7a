package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
	"github.com/sitterlink/backend/internal/notify"
	"github.com/sitterlink/backend/internal/profiles"
	"github.com/sitterlink/backend/internal/schedule"
)

type mockRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
}

func newMockRepo() *mockRepo {
	return &mockRepo{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (m *mockRepo) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = b
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepo) ListBySitterAndDate(_ context.Context, sitterID uuid.UUID, date time.Time) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.SitterID == sitterID && b.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByParticipant(_ context.Context, accountID uuid.UUID) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.ParentID == accountID || b.SitterID == accountID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockSitters struct {
	profiles map[uuid.UUID]*models.SitterProfile
}

func (m *mockSitters) GetByAccountID(_ context.Context, accountID uuid.UUID) (*models.SitterProfile, error) {
	p, ok := m.profiles[accountID]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return p, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	sitterID uuid.UUID
	parentID uuid.UUID
	sent     []notify.SendArgs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo:     newMockRepo(),
		sitterID: uuid.New(),
		parentID: uuid.New(),
	}
	sitters := &mockSitters{profiles: map[uuid.UUID]*models.SitterProfile{
		f.sitterID: {
			ID:              uuid.New(),
			AccountID:       f.sitterID,
			HourlyRateCents: 20000,
			IsActive:        true,
		},
	}}
	enqueue := func(_ context.Context, args notify.SendArgs) error {
		f.sent = append(f.sent, args)
		return nil
	}
	f.svc = NewService(f.repo, sitters, schedule.NewChecker(log), enqueue, log)
	return f
}

func (f *fixture) parent() models.Principal {
	return models.Principal{AccountID: f.parentID, Role: models.RoleParent}
}

func (f *fixture) sitter() models.Principal {
	return models.Principal{AccountID: f.sitterID, Role: models.RoleSitter}
}

func (f *fixture) createParams() CreateParams {
	return CreateParams{
		SitterID:  f.sitterID,
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "13:00",
		Address:   "12 Elm Street",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment status = %q, want pending", b.PaymentStatus)
	}
	if b.DurationHours != 4.0 {
		t.Errorf("duration = %v, want 4.0", b.DurationHours)
	}
	if b.HourlyRateCents != 20000 {
		t.Errorf("rate snapshot = %d, want 20000", b.HourlyRateCents)
	}
	if b.TotalAmountCents != 80000 {
		t.Errorf("total = %d, want 80000", b.TotalAmountCents)
	}
	if len(f.sent) != 1 || f.sent[0].AccountID != f.sitterID {
		t.Errorf("expected one notification to the sitter, got %+v", f.sent)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	base := f.createParams()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"missing sitter", func(p *CreateParams) { p.SitterID = uuid.Nil }},
		{"missing address", func(p *CreateParams) { p.Address = "" }},
		{"missing date", func(p *CreateParams) { p.Date = time.Time{} }},
		{"bad start format", func(p *CreateParams) { p.StartTime = "9am" }},
		{"end before start", func(p *CreateParams) { p.StartTime = "13:00"; p.EndTime = "09:00" }},
		{"zero-length window", func(p *CreateParams) { p.EndTime = p.StartTime }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := base
			tc.mutate(&params)
			if _, err := f.svc.Create(context.Background(), f.parent(), params); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateBookingOnlyParents(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.sitter(), f.createParams()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestCreateBookingUnknownSitter(t *testing.T) {
	f := newFixture(t)
	params := f.createParams()
	params.SitterID = uuid.New()
	if _, err := f.svc.Create(context.Background(), f.parent(), params); !errors.Is(err, ErrSitterNotFound) {
		t.Fatalf("err = %v, want ErrSitterNotFound", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), f.parent(), f.createParams()); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	overlapping := f.createParams()
	overlapping.StartTime = "12:00"
	overlapping.EndTime = "15:00"
	if _, err := f.svc.Create(context.Background(), f.parent(), overlapping); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// Touching windows do not overlap.
	adjacent := f.createParams()
	adjacent.StartTime = "13:00"
	adjacent.EndTime = "15:00"
	if _, err := f.svc.Create(context.Background(), f.parent(), adjacent); err != nil {
		t.Fatalf("adjacent Create: %v", err)
	}
}

func TestCreateBookingIgnoresTerminalSlots(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), f.parent(), first.ID, models.BookingStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Same window again: the cancelled booking must not block it.
	if _, err := f.svc.Create(context.Background(), f.parent(), f.createParams()); err != nil {
		t.Fatalf("rebook over cancelled slot: %v", err)
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		actor   string // "parent" or "sitter"
		wantErr string // "", "illegal", "forbidden"
	}{
		{"sitter confirms pending", models.BookingStatusPending, models.BookingStatusConfirmed, "sitter", ""},
		{"sitter rejects pending", models.BookingStatusPending, models.BookingStatusRejected, "sitter", ""},
		{"parent cancels pending", models.BookingStatusPending, models.BookingStatusCancelled, "parent", ""},
		{"sitter completes confirmed", models.BookingStatusConfirmed, models.BookingStatusCompleted, "sitter", ""},
		{"parent completes confirmed", models.BookingStatusConfirmed, models.BookingStatusCompleted, "parent", ""},
		{"parent cancels confirmed", models.BookingStatusConfirmed, models.BookingStatusCancelled, "parent", ""},
		{"sitter cancels confirmed", models.BookingStatusConfirmed, models.BookingStatusCancelled, "sitter", ""},

		{"parent confirms pending", models.BookingStatusPending, models.BookingStatusConfirmed, "parent", "forbidden"},
		{"parent rejects pending", models.BookingStatusPending, models.BookingStatusRejected, "parent", "forbidden"},
		{"sitter cancels pending", models.BookingStatusPending, models.BookingStatusCancelled, "sitter", "forbidden"},

		{"complete from pending", models.BookingStatusPending, models.BookingStatusCompleted, "sitter", "illegal"},
		{"confirm completed", models.BookingStatusCompleted, models.BookingStatusConfirmed, "sitter", "illegal"},
		{"cancel completed", models.BookingStatusCompleted, models.BookingStatusCancelled, "parent", "illegal"},
		{"confirm cancelled", models.BookingStatusCancelled, models.BookingStatusConfirmed, "sitter", "illegal"},
		{"confirm rejected", models.BookingStatusRejected, models.BookingStatusConfirmed, "sitter", "illegal"},
		{"reject confirmed", models.BookingStatusConfirmed, models.BookingStatusRejected, "sitter", "illegal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			b := &models.Booking{
				ID:        uuid.New(),
				ParentID:  f.parentID,
				SitterID:  f.sitterID,
				Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				StartTime: "09:00",
				EndTime:   "13:00",
				Status:    tc.from,
			}
			f.repo.bookings[b.ID] = b

			actor := f.parent()
			if tc.actor == "sitter" {
				actor = f.sitter()
			}
			_, err := f.svc.Transition(context.Background(), actor, b.ID, tc.to)

			var illegal *IllegalTransitionError
			switch tc.wantErr {
			case "":
				if err != nil {
					t.Fatalf("Transition: %v", err)
				}
			case "illegal":
				if !errors.As(err, &illegal) {
					t.Fatalf("err = %v, want IllegalTransitionError", err)
				}
				if illegal.From != tc.from || illegal.To != tc.to {
					t.Errorf("IllegalTransitionError = %+v, want {%s %s}", illegal, tc.from, tc.to)
				}
			case "forbidden":
				if !errors.Is(err, ErrForbidden) {
					t.Fatalf("err = %v, want ErrForbidden", err)
				}
			}
		})
	}
}

func TestTransitionStrangerForbidden(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stranger := models.Principal{AccountID: uuid.New(), Role: models.RoleSitter}
	if _, err := f.svc.Transition(context.Background(), stranger, b.ID, models.BookingStatusConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestConfirmRevalidatesSlot(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}

	// Simulate the creation race: a second overlapping pending booking that
	// slipped past the optimistic check.
	second := &models.Booking{
		ID:        uuid.New(),
		ParentID:  uuid.New(),
		SitterID:  f.sitterID,
		Date:      first.Date,
		StartTime: "10:00",
		EndTime:   "12:00",
		Status:    models.BookingStatusPending,
	}
	f.repo.bookings[second.ID] = second

	if _, err := f.svc.Transition(context.Background(), f.sitter(), first.ID, models.BookingStatusConfirmed); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict for overlapping pending sibling", err)
	}

	// Once the sibling is rejected the slot frees up.
	if _, err := f.svc.Transition(context.Background(), f.sitter(), second.ID, models.BookingStatusRejected); err != nil {
		t.Fatalf("reject sibling: %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), f.sitter(), first.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm after sibling rejected: %v", err)
	}
}

func TestCompleteLeavesPaymentPending(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Transition(context.Background(), f.sitter(), b.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	done, err := f.svc.Transition(context.Background(), f.sitter(), b.ID, models.BookingStatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.BookingStatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if done.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment status = %q, want pending until settlement", done.PaymentStatus)
	}
}

func TestAllowedTransitions(t *testing.T) {
	f := newFixture(t)
	b := &models.Booking{ParentID: f.parentID, SitterID: f.sitterID, Status: models.BookingStatusPending}

	got := AllowedTransitions(f.sitter(), b)
	want := map[string]bool{models.BookingStatusConfirmed: true, models.BookingStatusRejected: true}
	if len(got) != len(want) {
		t.Fatalf("sitter transitions = %v, want confirmed and rejected", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Errorf("unexpected transition %q", s)
		}
	}

	if got := AllowedTransitions(f.parent(), b); len(got) != 1 || got[0] != models.BookingStatusCancelled {
		t.Errorf("parent transitions = %v, want [cancelled]", got)
	}

	b.Status = models.BookingStatusCompleted
	if got := AllowedTransitions(f.sitter(), b); len(got) != 0 {
		t.Errorf("terminal transitions = %v, want none", got)
	}
}

func TestGetRequiresParticipant(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), f.parent(), f.createParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), f.sitter(), b.ID); err != nil {
		t.Errorf("sitter Get: %v", err)
	}
	stranger := models.Principal{AccountID: uuid.New(), Role: models.RoleParent}
	if _, err := f.svc.Get(context.Background(), stranger, b.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger Get err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Get(context.Background(), f.parent(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing Get err = %v, want ErrNotFound", err)
	}
}
