package team_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitasa/salesshare/internal/policy"
	"github.com/hitasa/salesshare/internal/team"
)

// fakeRepo is an in-memory team.Repository with the same error semantics as
// the postgres implementation.
type fakeRepo struct {
	teams       map[uuid.UUID]*team.Team
	memberships map[uuid.UUID]map[uuid.UUID]policy.Role // teamID -> userID -> role
	invitations map[uuid.UUID]*team.Invitation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		teams:       make(map[uuid.UUID]*team.Team),
		memberships: make(map[uuid.UUID]map[uuid.UUID]policy.Role),
		invitations: make(map[uuid.UUID]*team.Invitation),
	}
}

func (f *fakeRepo) Create(_ context.Context, t *team.Team) error {
	t.ID = uuid.New()
	cp := *t
	f.teams[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, team.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.teams[id]; !ok {
		return team.ErrTeamNotFound
	}
	delete(f.teams, id)
	delete(f.memberships, id)
	return nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]team.Team, error) {
	var out []team.Team
	for teamID, members := range f.memberships {
		if _, ok := members[userID]; ok {
			out = append(out, *f.teams[teamID])
		}
	}
	return out, nil
}

func (f *fakeRepo) AddMember(_ context.Context, m *team.Membership) error {
	if f.memberships[m.TeamID] == nil {
		f.memberships[m.TeamID] = make(map[uuid.UUID]policy.Role)
	}
	if _, ok := f.memberships[m.TeamID][m.UserID]; ok {
		return team.ErrMembershipExists
	}
	f.memberships[m.TeamID][m.UserID] = m.Role
	return nil
}

func (f *fakeRepo) RemoveMember(_ context.Context, teamID, userID uuid.UUID) error {
	if _, ok := f.memberships[teamID][userID]; !ok {
		return team.ErrMembershipNotFound
	}
	delete(f.memberships[teamID], userID)
	return nil
}

func (f *fakeRepo) ListMembers(_ context.Context, teamID uuid.UUID) ([]team.Member, error) {
	var out []team.Member
	for userID, role := range f.memberships[teamID] {
		out = append(out, team.Member{UserID: userID, Role: role})
	}
	return out, nil
}

func (f *fakeRepo) MembershipsForUser(_ context.Context, userID uuid.UUID) ([]team.Membership, error) {
	var out []team.Membership
	for teamID, members := range f.memberships {
		if role, ok := members[userID]; ok {
			out = append(out, team.Membership{TeamID: teamID, UserID: userID, Role: role})
		}
	}
	return out, nil
}

func (f *fakeRepo) MemberIDs(_ context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for userID := range f.memberships[teamID] {
		out = append(out, userID)
	}
	return out, nil
}

func (f *fakeRepo) CreateInvitation(_ context.Context, inv *team.Invitation) error {
	inv.ID = uuid.New()
	inv.Status = team.StatusPending
	cp := *inv
	f.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) GetInvitationByID(_ context.Context, id uuid.UUID) (*team.Invitation, error) {
	inv, ok := f.invitations[id]
	if !ok {
		return nil, team.ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) ListInvitationsForTeam(_ context.Context, teamID uuid.UUID) ([]team.Invitation, error) {
	var out []team.Invitation
	for _, inv := range f.invitations {
		if inv.TeamID == teamID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPendingInvitationsForEmail(_ context.Context, email string) ([]team.Invitation, error) {
	var out []team.Invitation
	for _, inv := range f.invitations {
		if inv.Email == email && inv.Status == team.StatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeRepo) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	inv, ok := f.invitations[invitationID]
	if !ok {
		return team.ErrInvitationNotFound
	}
	if inv.Status != team.StatusPending {
		return team.ErrInvitationNotPending
	}
	inv.Status = team.StatusAccepted
	return f.AddMember(ctx, &team.Membership{TeamID: inv.TeamID, UserID: userID, Role: inv.Role})
}

func (f *fakeRepo) DeclineInvitation(_ context.Context, invitationID uuid.UUID) error {
	inv, ok := f.invitations[invitationID]
	if !ok {
		return team.ErrInvitationNotFound
	}
	if inv.Status != team.StatusPending {
		return team.ErrInvitationNotPending
	}
	inv.Status = team.StatusDeclined
	return nil
}

func setup(t *testing.T) (*team.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return team.NewService(repo, 7*24*time.Hour), repo
}

func admin(t *testing.T, svc *team.Service) (*policy.Actor, *team.Team) {
	t.Helper()
	a := &policy.Actor{UserID: uuid.New(), Email: "admin@example.com"}
	created, err := svc.CreateTeam(context.Background(), a, "sales")
	require.NoError(t, err)
	return a, created
}

// --- CreateTeam Tests ---

func TestCreateTeam_CreatorBecomesAdmin(t *testing.T) {
	svc, repo := setup(t)
	a, created := admin(t, svc)

	assert.Equal(t, a.UserID, created.CreatedBy)
	assert.Equal(t, policy.RoleAdmin, repo.memberships[created.ID][a.UserID])
}

func TestCreateTeam_NilActorForbidden(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.CreateTeam(context.Background(), nil, "sales")
	assert.ErrorIs(t, err, team.ErrForbidden)
}

// --- Admin-only Operation Tests ---

func TestDeleteTeam_MemberForbidden(t *testing.T) {
	svc, repo := setup(t)
	_, created := admin(t, svc)

	member := &policy.Actor{UserID: uuid.New(), Email: "member@example.com"}
	repo.memberships[created.ID][member.UserID] = policy.RoleMember

	err := svc.DeleteTeam(context.Background(), member, created.ID)
	assert.ErrorIs(t, err, team.ErrForbidden)
}

func TestDeleteTeam_AdminSucceeds(t *testing.T) {
	svc, repo := setup(t)
	a, created := admin(t, svc)

	require.NoError(t, svc.DeleteTeam(context.Background(), a, created.ID))
	assert.NotContains(t, repo.teams, created.ID)
}

func TestInvite_MemberForbidden(t *testing.T) {
	svc, repo := setup(t)
	_, created := admin(t, svc)

	member := &policy.Actor{UserID: uuid.New(), Email: "member@example.com"}
	repo.memberships[created.ID][member.UserID] = policy.RoleMember

	_, err := svc.Invite(context.Background(), member, created.ID, "new@example.com", policy.RoleMember)
	assert.ErrorIs(t, err, team.ErrForbidden)
}

func TestInvite_NormalizesEmailAndSetsExpiry(t *testing.T) {
	svc, _ := setup(t)
	a, created := admin(t, svc)

	inv, err := svc.Invite(context.Background(), a, created.ID, "  New@Example.COM ", policy.RoleMember)
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", inv.Email)
	assert.Equal(t, team.StatusPending, inv.Status)
	assert.True(t, inv.ExpiresAt.After(time.Now()))
}

func TestRemoveMember_AdminRemovesMember(t *testing.T) {
	svc, repo := setup(t)
	a, created := admin(t, svc)

	member := uuid.New()
	repo.memberships[created.ID][member] = policy.RoleMember

	require.NoError(t, svc.RemoveMember(context.Background(), a, created.ID, member))
	assert.NotContains(t, repo.memberships[created.ID], member)
}

// --- Invitation Response Tests ---

func TestRespondToInvitation_AcceptCreatesMembership(t *testing.T) {
	svc, repo := setup(t)
	a, created := admin(t, svc)
	ctx := context.Background()

	inv, err := svc.Invite(ctx, a, created.ID, "invitee@example.com", policy.RoleMember)
	require.NoError(t, err)

	invitee := &policy.Actor{UserID: uuid.New(), Email: "invitee@example.com"}
	require.NoError(t, svc.RespondToInvitation(ctx, invitee, inv.ID, true))

	assert.Equal(t, policy.RoleMember, repo.memberships[created.ID][invitee.UserID])
	assert.Equal(t, team.StatusAccepted, repo.invitations[inv.ID].Status)
}

func TestRespondToInvitation_SecondResponseConflicts(t *testing.T) {
	svc, _ := setup(t)
	a, created := admin(t, svc)
	ctx := context.Background()

	inv, err := svc.Invite(ctx, a, created.ID, "invitee@example.com", policy.RoleMember)
	require.NoError(t, err)

	invitee := &policy.Actor{UserID: uuid.New(), Email: "invitee@example.com"}
	require.NoError(t, svc.RespondToInvitation(ctx, invitee, inv.ID, true))

	err = svc.RespondToInvitation(ctx, invitee, inv.ID, false)
	assert.ErrorIs(t, err, team.ErrInvitationNotPending)
}

func TestRespondToInvitation_WrongEmailForbidden(t *testing.T) {
	svc, _ := setup(t)
	a, created := admin(t, svc)
	ctx := context.Background()

	inv, err := svc.Invite(ctx, a, created.ID, "invitee@example.com", policy.RoleMember)
	require.NoError(t, err)

	stranger := &policy.Actor{UserID: uuid.New(), Email: "stranger@example.com"}
	err = svc.RespondToInvitation(ctx, stranger, inv.ID, true)
	assert.ErrorIs(t, err, team.ErrForbidden)
}

func TestRespondToInvitation_ExpiredForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc := team.NewService(repo, -time.Hour) // invitations expire immediately
	a, created := func() (*policy.Actor, *team.Team) {
		a := &policy.Actor{UserID: uuid.New(), Email: "admin@example.com"}
		tm, err := svc.CreateTeam(context.Background(), a, "sales")
		require.NoError(t, err)
		return a, tm
	}()
	ctx := context.Background()

	inv, err := svc.Invite(ctx, a, created.ID, "invitee@example.com", policy.RoleMember)
	require.NoError(t, err)

	invitee := &policy.Actor{UserID: uuid.New(), Email: "invitee@example.com"}
	err = svc.RespondToInvitation(ctx, invitee, inv.ID, true)
	assert.ErrorIs(t, err, team.ErrForbidden)
}

func TestRespondToInvitation_Decline(t *testing.T) {
	svc, repo := setup(t)
	a, created := admin(t, svc)
	ctx := context.Background()

	inv, err := svc.Invite(ctx, a, created.ID, "invitee@example.com", policy.RoleMember)
	require.NoError(t, err)

	invitee := &policy.Actor{UserID: uuid.New(), Email: "invitee@example.com"}
	require.NoError(t, svc.RespondToInvitation(ctx, invitee, inv.ID, false))

	assert.Equal(t, team.StatusDeclined, repo.invitations[inv.ID].Status)
	assert.NotContains(t, repo.memberships[created.ID], invitee.UserID)
}

// --- MyInvitations Tests ---

func TestMyInvitations_OnlyPendingForActorEmail(t *testing.T) {
	svc, _ := setup(t)
	a, created := admin(t, svc)
	ctx := context.Background()

	_, err := svc.Invite(ctx, a, created.ID, "one@example.com", policy.RoleMember)
	require.NoError(t, err)
	inv2, err := svc.Invite(ctx, a, created.ID, "two@example.com", policy.RoleMember)
	require.NoError(t, err)

	two := &policy.Actor{UserID: uuid.New(), Email: "two@example.com"}
	require.NoError(t, svc.RespondToInvitation(ctx, two, inv2.ID, false))

	one := &policy.Actor{UserID: uuid.New(), Email: "one@example.com"}
	mine, err := svc.MyInvitations(ctx, one)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "one@example.com", mine[0].Email)

	gone, err := svc.MyInvitations(ctx, two)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

// --- Membership Fact Tests ---

func TestMembershipSet_EmptyForUnknownUser(t *testing.T) {
	svc, _ := setup(t)

	set, err := svc.MembershipSet(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestGetTeam_NonMemberForbidden(t *testing.T) {
	svc, _ := setup(t)
	_, created := admin(t, svc)

	stranger := &policy.Actor{UserID: uuid.New(), Email: "stranger@example.com"}
	_, err := svc.GetTeam(context.Background(), stranger, created.ID)
	assert.ErrorIs(t, err, team.ErrForbidden)
}
