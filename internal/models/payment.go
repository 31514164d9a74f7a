package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// PaymentRecord status enum, a state machine independent of Booking.Status.
// A record never mutates again once completed or refunded.
const (
	PaymentRecordPending   = "pending"
	PaymentRecordCompleted = "completed"
	PaymentRecordFailed    = "failed"
	PaymentRecordRefunded  = "refunded"
	PaymentRecordCancelled = "cancelled"
)

type PaymentRecord struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`

	// AmountCents is copied from the booking at settlement time, not
	// re-derived. PlatformFeeCents + SitterEarningsCents == AmountCents.
	AmountCents         int64 `json:"amount_cents"`
	PlatformFeeCents    int64 `json:"platform_fee_cents"`
	SitterEarningsCents int64 `json:"sitter_earnings_cents"`

	Method string `json:"method"`
	Status string `json:"status"`

	// TransactionRef correlates online payments with the external
	// processor. Absent for cash.
	TransactionRef *string    `json:"transaction_ref,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
