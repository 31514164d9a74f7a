package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking status enum. completed, cancelled and rejected are terminal.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusRejected  = "rejected"
)

// Payment status of a booking. Independent axis from the booking status:
// paid is reachable only from a completed booking, via settlement.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

type Booking struct {
	ID       uuid.UUID `json:"id"`
	ParentID uuid.UUID `json:"parent_id"`
	SitterID uuid.UUID `json:"sitter_id"`

	// Date is the calendar day of the engagement; only year/month/day are
	// meaningful. StartTime and EndTime are 24h "HH:MM" wall-clock strings
	// on that day.
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`

	DurationHours float64 `json:"duration_hours"`
	// HourlyRateCents is snapshotted from the sitter profile at creation;
	// the total never changes if the sitter later edits their rate.
	HourlyRateCents  int64 `json:"hourly_rate_cents"`
	TotalAmountCents int64 `json:"total_amount_cents"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	Address             string `json:"address"`
	SpecialInstructions string `json:"special_instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
