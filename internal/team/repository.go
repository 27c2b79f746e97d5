package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrMembershipExists is returned when the user already belongs to the team.
var ErrMembershipExists = errors.New("user is already a team member")

// ErrMembershipNotFound is returned when no membership exists for the pair.
var ErrMembershipNotFound = errors.New("team membership not found")

// ErrInvitationNotFound is returned when an invitation record is not found.
var ErrInvitationNotFound = errors.New("invitation not found")

// ErrInvitationNotPending is returned when responding to an invitation that
// already reached a terminal status.
var ErrInvitationNotPending = errors.New("invitation is no longer pending")

// Repository provides operations on teams, memberships and invitations.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error)

	AddMember(ctx context.Context, m *Membership) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error)
	MembershipsForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
	MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)

	CreateInvitation(ctx context.Context, inv *Invitation) error
	GetInvitationByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	ListInvitationsForTeam(ctx context.Context, teamID uuid.UUID) ([]Invitation, error)
	ListPendingInvitationsForEmail(ctx context.Context, email string) ([]Invitation, error)
	// AcceptInvitation flips the invitation to accepted and inserts the
	// membership in a single transaction. Returns ErrInvitationNotPending if
	// the status already moved, ErrMembershipExists if the user already
	// belongs to the team.
	AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error
	// DeclineInvitation flips the invitation to declined. Returns
	// ErrInvitationNotPending if the status already moved.
	DeclineInvitation(ctx context.Context, invitationID uuid.UUID) error
}
