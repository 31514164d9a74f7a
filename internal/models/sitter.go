package models

import (
	"time"

	"github.com/google/uuid"
)

type SitterProfile struct {
	ID              uuid.UUID `json:"id"`
	AccountID       uuid.UUID `json:"account_id"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	Bio             string    `json:"bio,omitempty"`
	Skills          []string  `json:"skills"`
	City            string    `json:"city,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Derived on read, never stored: recomputed from bookings and reviews.
	CompletedBookings int      `json:"completed_bookings"`
	AvgRating         *float64 `json:"avg_rating,omitempty"`
}
