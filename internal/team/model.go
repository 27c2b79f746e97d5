package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/policy"
)

// Invitation statuses. Transitions are one-way: pending may move to accepted
// or declined, both of which are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Team represents a row in the teams table.
type Team struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership represents a row in the team_members table. A user has at most
// one membership per team (primary key on team_id, user_id).
type Membership struct {
	TeamID    uuid.UUID
	UserID    uuid.UUID
	Role      policy.Role
	CreatedAt time.Time
}

// Member is a membership joined with the user's display fields.
type Member struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Role      policy.Role
	CreatedAt time.Time
}

// Invitation represents a row in the team_invitations table.
type Invitation struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	TeamName  string
	Email     string
	Role      policy.Role
	Status    string
	InvitedBy uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}
