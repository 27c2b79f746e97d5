package company

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a row in the companies table. A nil TeamID means the
// company is part of the public catalogue; setting it is a one-way transition.
type Company struct {
	ID          uuid.UUID
	Name        string
	Industry    string
	SalesVolume string
	Growth      string
	Website     string
	Phone       string
	Email       string
	Review      string
	Notes       string
	CreatedBy   uuid.UUID
	TeamID      *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Review represents a row in the reviews table. Seq is assigned by the store
// in insertion order and breaks date ties when sorting.
type Review struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	UserID       uuid.UUID
	Rating       int
	Comment      string
	IsTeamReview bool
	Date         time.Time
	Seq          int64
}

// Comment represents a row in the comments table: informal discussion,
// distinct from rated reviews, visible to anyone who can view the company.
type Comment struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Text      string
	CreatedAt time.Time
}
