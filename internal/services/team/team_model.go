package team

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users behind an invite code. The code is generated client-side
// at creation time and immutable afterwards; uniqueness is enforced by the
// remote store.
type Team struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	InviteCode string    `json:"invite_code" db:"invite_code"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
