package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry types written when a booking settles.
const (
	LedgerEntrySitterEarning = "sitter_earning"
	LedgerEntryPlatformFee   = "platform_fee"
	LedgerEntryRefund        = "refund"
)

type LedgerEntry struct {
	ID                uuid.UUID  `json:"id"`
	AccountID         uuid.UUID  `json:"account_id"`
	BookingID         *uuid.UUID `json:"booking_id,omitempty"`
	EntryType         string     `json:"entry_type"`
	AmountCents       int64      `json:"amount_cents"`
	BalanceAfterCents *int64     `json:"balance_after_cents,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
