package models

import (
	"time"

	"github.com/google/uuid"
)

// Account roles. A sitter additionally has a SitterProfile.
const (
	RoleParent = "parent"
	RoleSitter = "sitter"
)

// SystemPlatformAccountID receives the platform fee on every settlement.
var SystemPlatformAccountID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	BalanceCents int64     `json:"balance_cents"`
	IsSystem     bool      `json:"is_system"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity driving a request: who they are
// and which side of the marketplace they act for.
type Principal struct {
	AccountID uuid.UUID
	Role      string
}
