package schedule

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitterlink/backend/internal/models"
)

// Checker decides whether a sitter is free for a candidate time window,
// given that sitter's existing bookings.
type Checker struct {
	log *slog.Logger
}

func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{log: log}
}

// blocking reports whether a booking in this status holds its slot.
// Terminal bookings (rejected, cancelled, completed) never block.
func blocking(status string) bool {
	return status == models.BookingStatusPending || status == models.BookingStatusConfirmed
}

// IsAvailable reports whether sitterID is free on date for [startTime,
// endTime). startTime and endTime must already be validated (see Duration);
// existing may contain bookings for other sitters or dates, which are
// ignored.
//
// Stored bookings with unparseable time strings are skipped rather than
// failing the whole check: dirty data degrades to availability, not to
// spurious rejection. Each skip is logged for reconciliation.
func (c *Checker) IsAvailable(sitterID uuid.UUID, date time.Time, startTime, endTime string, existing []*models.Booking) bool {
	start, err := ToMinutes(startTime)
	if err != nil {
		c.log.Warn("conflict check got invalid candidate window, allowing", "sitter_id", sitterID, "start", startTime, "error", err)
		return true
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		c.log.Warn("conflict check got invalid candidate window, allowing", "sitter_id", sitterID, "end", endTime, "error", err)
		return true
	}

	for _, b := range existing {
		if b.SitterID != sitterID || !blocking(b.Status) {
			continue
		}
		if !sameDate(b.Date, date) {
			continue
		}
		bStart, err := ToMinutes(b.StartTime)
		if err != nil {
			c.log.Warn("skipping booking with malformed start time", "booking_id", b.ID, "start_time", b.StartTime, "error", err)
			continue
		}
		bEnd, err := ToMinutes(b.EndTime)
		if err != nil {
			c.log.Warn("skipping booking with malformed end time", "booking_id", b.ID, "end_time", b.EndTime, "error", err)
			continue
		}
		if Overlaps(start, end, bStart, bEnd) {
			return false
		}
	}
	return true
}

// sameDate compares calendar days only. Stored dates may carry arbitrary
// timestamps and offsets; comparing instants would produce timezone-induced
// false negatives.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
