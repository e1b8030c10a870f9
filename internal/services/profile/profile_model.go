package profile

import "time"

// Profile is the per-user display metadata row. It is created lazily the
// first time a signed-in user touches the remote store.
type Profile struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
