package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitasa/salesshare/internal/company"
	"github.com/hitasa/salesshare/internal/policy"
	"github.com/hitasa/salesshare/internal/project"
)

type pair struct{ projectID, companyID uuid.UUID }

// fakeRepo is an in-memory project.Repository with the same error semantics
// as the postgres implementation.
type fakeRepo struct {
	projects  map[uuid.UUID]*project.Project
	links     map[pair]bool
	notes     []project.Note
	available []company.Company
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: make(map[uuid.UUID]*project.Project),
		links:    make(map[pair]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *project.Project) error {
	p.ID = uuid.New()
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeRepo) VisibleToUser(_ context.Context, userID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, p := range f.projects {
		if p.CreatedBy == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddCompany(_ context.Context, projectID, companyID uuid.UUID) error {
	k := pair{projectID, companyID}
	if f.links[k] {
		return project.ErrCompanyAlreadyInProject
	}
	f.links[k] = true
	return nil
}

func (f *fakeRepo) RemoveCompany(_ context.Context, projectID, companyID uuid.UUID) error {
	k := pair{projectID, companyID}
	if !f.links[k] {
		return project.ErrCompanyNotInProject
	}
	delete(f.links, k)
	return nil
}

func (f *fakeRepo) ListCompanies(_ context.Context, _ uuid.UUID) ([]company.Company, error) {
	return nil, nil
}

func (f *fakeRepo) AvailableCompanies(_ context.Context, _, _ uuid.UUID, _ *uuid.UUID) ([]company.Company, error) {
	return f.available, nil
}

func (f *fakeRepo) AddNote(_ context.Context, n *project.Note) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notes = append(f.notes, *n)
	return nil
}

func (f *fakeRepo) ListNotes(_ context.Context, projectID uuid.UUID) ([]project.Note, error) {
	var out []project.Note
	for _, n := range f.notes {
		if n.ProjectID == projectID {
			out = append(out, n)
		}
	}
	return out, nil
}

// fakeMemberships serves fixed membership facts.
type fakeMemberships struct {
	sets map[uuid.UUID]policy.MembershipSet
}

func (f *fakeMemberships) MembershipSet(_ context.Context, userID uuid.UUID) (policy.MembershipSet, error) {
	if set, ok := f.sets[userID]; ok {
		return set, nil
	}
	return policy.MembershipSet{}, nil
}

func setup(t *testing.T) (*project.Service, *fakeRepo, *fakeMemberships) {
	t.Helper()
	repo := newFakeRepo()
	memberships := &fakeMemberships{sets: make(map[uuid.UUID]policy.MembershipSet)}
	return project.NewService(repo, memberships, nil), repo, memberships
}

func actor() *policy.Actor {
	return &policy.Actor{UserID: uuid.New(), Email: "actor@example.com"}
}

// --- CreateProject Tests ---

func TestCreateProject_PrivateProject(t *testing.T) {
	svc, _, _ := setup(t)

	p, err := svc.CreateProject(context.Background(), actor(), "Q3 pipeline", "follow ups", nil)
	require.NoError(t, err)

	assert.Equal(t, "Q3 pipeline", p.Name)
	assert.Nil(t, p.TeamID)
}

func TestCreateProject_TeamSharedRequiresMembership(t *testing.T) {
	svc, _, memberships := setup(t)
	a := actor()
	teamID := uuid.New()

	_, err := svc.CreateProject(context.Background(), a, "Q3", "", &teamID)
	assert.ErrorIs(t, err, project.ErrForbidden)

	memberships.sets[a.UserID] = policy.MembershipSet{teamID: policy.RoleMember}
	p, err := svc.CreateProject(context.Background(), a, "Q3", "", &teamID)
	require.NoError(t, err)
	assert.Equal(t, &teamID, p.TeamID)
}

// --- Access Tests ---

func TestGetProject_StrangerForbidden(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	p := &project.Project{Name: "Q3", CreatedBy: uuid.New()}
	require.NoError(t, repo.Create(ctx, p))

	_, err := svc.GetProject(ctx, actor(), p.ID)
	assert.ErrorIs(t, err, project.ErrForbidden)
}

func TestGetProject_TeamMemberAllowed(t *testing.T) {
	svc, repo, memberships := setup(t)
	ctx := context.Background()
	a := actor()
	teamID := uuid.New()
	memberships.sets[a.UserID] = policy.MembershipSet{teamID: policy.RoleMember}

	p := &project.Project{Name: "Q3", CreatedBy: uuid.New(), TeamID: &teamID}
	require.NoError(t, repo.Create(ctx, p))

	got, err := svc.GetProject(ctx, a, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

// --- AddCompany Tests ---

func TestAddCompany_StrangerForbidden(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	p := &project.Project{Name: "Q3", CreatedBy: uuid.New()}
	require.NoError(t, repo.Create(ctx, p))

	err := svc.AddCompany(ctx, actor(), p.ID, uuid.New())
	assert.ErrorIs(t, err, project.ErrForbidden)
}

func TestAddCompany_DuplicatePairConflicts(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a := actor()

	p := &project.Project{Name: "Q3", CreatedBy: a.UserID}
	require.NoError(t, repo.Create(ctx, p))

	companyID := uuid.New()
	require.NoError(t, svc.AddCompany(ctx, a, p.ID, companyID))

	err := svc.AddCompany(ctx, a, p.ID, companyID)
	assert.ErrorIs(t, err, project.ErrCompanyAlreadyInProject)
}

func TestRemoveCompany_AbsentPairNotFound(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a := actor()

	p := &project.Project{Name: "Q3", CreatedBy: a.UserID}
	require.NoError(t, repo.Create(ctx, p))

	err := svc.RemoveCompany(ctx, a, p.ID, uuid.New())
	assert.ErrorIs(t, err, project.ErrCompanyNotInProject)
}

// --- AvailableCompanies Tests ---

func TestAvailableCompanies_RequiresAccess(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	p := &project.Project{Name: "Q3", CreatedBy: uuid.New()}
	require.NoError(t, repo.Create(ctx, p))

	_, err := svc.AvailableCompanies(ctx, actor(), p.ID)
	assert.ErrorIs(t, err, project.ErrForbidden)
}

func TestAvailableCompanies_ReturnsCandidates(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a := actor()

	p := &project.Project{Name: "Q3", CreatedBy: a.UserID}
	require.NoError(t, repo.Create(ctx, p))
	repo.available = []company.Company{{ID: uuid.New(), Name: "Acme"}}

	got, err := svc.AvailableCompanies(ctx, a, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Name)
}

// --- Note Tests ---

func TestAddNote_EmptyTextRejected(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.AddNote(context.Background(), actor(), uuid.New(), "  ")
	assert.ErrorIs(t, err, project.ErrEmptyNote)
}

func TestAddNote_AppendsAndLists(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a := actor()

	p := &project.Project{Name: "Q3", CreatedBy: a.UserID}
	require.NoError(t, repo.Create(ctx, p))

	_, err := svc.AddNote(ctx, a, p.ID, "call on monday")
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, a, p.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "call on monday", notes[0].Text)
}

// --- Delete Tests ---

func TestDeleteProject_CreatorOnly(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a := actor()

	p := &project.Project{Name: "Q3", CreatedBy: a.UserID}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, svc.DeleteProject(ctx, a, p.ID))
	assert.NotContains(t, repo.projects, p.ID)
}
