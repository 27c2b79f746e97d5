package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/policy"
)

// ErrForbidden is returned when the policy engine denies the requested action.
var ErrForbidden = errors.New("forbidden")

// Service enforces team policy around the repository.
type Service struct {
	repo      Repository
	inviteTTL time.Duration
	now       func() time.Time
}

// NewService creates a new team Service.
func NewService(repo Repository, inviteTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		inviteTTL: inviteTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// MembershipSet returns the user's memberships as a policy fact set. A user
// with no memberships gets an empty set, not an error.
func (s *Service) MembershipSet(ctx context.Context, userID uuid.UUID) (policy.MembershipSet, error) {
	memberships, err := s.repo.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(policy.MembershipSet, len(memberships))
	for _, m := range memberships {
		set[m.TeamID] = m.Role
	}

	return set, nil
}

// TeamMemberIDs returns the user IDs of all members of a team.
func (s *Service) TeamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.MemberIDs(ctx, teamID)
}

// CreateTeam creates a team and makes the creator its admin.
func (s *Service) CreateTeam(ctx context.Context, actor *policy.Actor, name string) (*Team, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	t := &Team{Name: name, CreatedBy: actor.UserID}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	m := &Membership{TeamID: t.ID, UserID: actor.UserID, Role: policy.RoleAdmin}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}

	return t, nil
}

// ListMyTeams returns the teams the actor belongs to.
func (s *Service) ListMyTeams(ctx context.Context, actor *policy.Actor) ([]Team, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListForUser(ctx, actor.UserID)
}

// GetTeam returns a team the actor belongs to.
func (s *Service) GetTeam(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) (*Team, error) {
	if _, err := s.requireMember(ctx, actor, teamID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, teamID)
}

// DeleteTeam removes a team. Admin only; memberships cascade.
func (s *Service) DeleteTeam(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actor, teamID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, teamID)
}

// ListMembers returns the team's members. Visible to any member.
func (s *Service) ListMembers(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) ([]Member, error) {
	if _, err := s.requireMember(ctx, actor, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}

// RemoveMember removes a user from the team. Admin only.
func (s *Service) RemoveMember(ctx context.Context, actor *policy.Actor, teamID, userID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actor, teamID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, teamID, userID)
}

// Invite creates a pending invitation binding an email to the team with the
// proposed role. Admin only.
func (s *Service) Invite(ctx context.Context, actor *policy.Actor, teamID uuid.UUID, email string, role policy.Role) (*Invitation, error) {
	if err := s.requireAdmin(ctx, actor, teamID); err != nil {
		return nil, err
	}

	inv := &Invitation{
		TeamID:    teamID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		InvitedBy: actor.UserID,
		ExpiresAt: s.now().Add(s.inviteTTL),
	}
	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// ListTeamInvitations returns all invitations for a team. Admin only.
func (s *Service) ListTeamInvitations(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) ([]Invitation, error) {
	if err := s.requireAdmin(ctx, actor, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListInvitationsForTeam(ctx, teamID)
}

// MyInvitations returns pending, unexpired invitations addressed to the actor.
func (s *Service) MyInvitations(ctx context.Context, actor *policy.Actor) ([]Invitation, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListPendingInvitationsForEmail(ctx, actor.Email)
}

// RespondToInvitation accepts or declines a pending invitation addressed to
// the actor. Responding to an invitation that already reached a terminal
// status is a conflict, not a permission failure.
func (s *Service) RespondToInvitation(ctx context.Context, actor *policy.Actor, invitationID uuid.UUID, accept bool) error {
	if actor == nil {
		return ErrForbidden
	}

	inv, err := s.repo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}

	if inv.Status != StatusPending {
		return ErrInvitationNotPending
	}

	facts := policy.InvitationFacts{Email: inv.Email, Status: inv.Status, ExpiresAt: inv.ExpiresAt}
	if !policy.CanRespondToInvitation(actor, facts, s.now()) {
		return ErrForbidden
	}

	if accept {
		return s.repo.AcceptInvitation(ctx, invitationID, actor.UserID)
	}
	return s.repo.DeclineInvitation(ctx, invitationID)
}

func (s *Service) requireAdmin(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) error {
	if actor == nil {
		return ErrForbidden
	}

	memberships, err := s.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return err
	}

	if !policy.CanManageTeam(actor, teamID, memberships) {
		return ErrForbidden
	}

	return nil
}

func (s *Service) requireMember(ctx context.Context, actor *policy.Actor, teamID uuid.UUID) (policy.MembershipSet, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	memberships, err := s.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if !memberships.Has(teamID) {
		return nil, ErrForbidden
	}

	return memberships, nil
}
