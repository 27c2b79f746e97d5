package project

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a row in the projects table. A nil TeamID means the
// project is private to its creator.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedBy   uuid.UUID
	TeamID      *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Note is an append-only free-text entry attached to a project.
type Note struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Text      string
	CreatedAt time.Time
}
