package project

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Project is owned exclusively by its creator; a non-nil TeamID shares it
// with that team's feed.
type Project struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	TeamID      *uuid.UUID `json:"team_id,omitempty" db:"team_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Link        *string    `json:"link,omitempty" db:"link"`
	Status      Status     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest captures payload for sharing a new project
type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Link        *string    `json:"link,omitempty"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
	Status      Status     `json:"status,omitempty"`
}

// UpdateProjectRequest captures payload for updating a project
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Link        *string    `json:"link,omitempty"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}
