package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	SitterID  uuid.UUID `json:"sitter_id"`
	ParentID  uuid.UUID `json:"parent_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	// SentimentScore in [-1, 1], filled in asynchronously after submission.
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Report status enum.
const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
)

type Report struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReporterID uuid.UUID `json:"reporter_id"`
	ReportedID uuid.UUID `json:"reported_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
