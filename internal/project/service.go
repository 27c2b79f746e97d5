package project

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/cache"
	"github.com/hitasa/salesshare/internal/company"
	"github.com/hitasa/salesshare/internal/policy"
)

// ErrForbidden is returned when the policy engine denies the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrEmptyNote is returned when a note has no text.
var ErrEmptyNote = errors.New("note text must not be empty")

// MembershipSource supplies team membership facts for policy decisions.
type MembershipSource interface {
	MembershipSet(ctx context.Context, userID uuid.UUID) (policy.MembershipSet, error)
}

// ViewCache caches materialized view results; see company.ViewCache.
type ViewCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, val any)
	Invalidate(ctx context.Context, keys ...string)
}

// Service enforces access policy around the project repository.
type Service struct {
	repo        Repository
	memberships MembershipSource
	views       ViewCache
}

// NewService creates a new project Service. views may be nil.
func NewService(repo Repository, memberships MembershipSource, views ViewCache) *Service {
	return &Service{repo: repo, memberships: memberships, views: views}
}

// CreateProject creates a project owned by the actor, optionally shared with
// one of the actor's teams.
func (s *Service) CreateProject(ctx context.Context, actor *policy.Actor, name, description string, teamID *uuid.UUID) (*Project, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	if teamID != nil {
		memberships, err := s.memberships.MembershipSet(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !memberships.Has(*teamID) {
			return nil, ErrForbidden
		}
	}

	p := &Project{Name: name, Description: description, CreatedBy: actor.UserID, TeamID: teamID}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.ProjectsKey(actor.UserID))
	return p, nil
}

// VisibleProjects returns projects the actor created plus projects shared
// with the actor's teams.
func (s *Service) VisibleProjects(ctx context.Context, actor *policy.Actor) ([]Project, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	key := cache.ProjectsKey(actor.UserID)
	var cached []Project
	if s.views != nil && s.views.Get(ctx, key, &cached) {
		return cached, nil
	}

	projects, err := s.repo.VisibleToUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if s.views != nil {
		s.views.Set(ctx, key, projects)
	}
	return projects, nil
}

// GetProject returns a project the actor may view.
func (s *Service) GetProject(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) (*Project, error) {
	p, _, err := s.accessibleProject(ctx, actor, projectID)
	return p, err
}

// DeleteProject removes a project the actor may manage. Company links and
// notes cascade.
func (s *Service) DeleteProject(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) error {
	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.invalidate(ctx, cache.ProjectsKey(actor.UserID))
	return nil
}

// AddCompany links a company into the project. Duplicate pairs surface as
// ErrCompanyAlreadyInProject.
func (s *Service) AddCompany(ctx context.Context, actor *policy.Actor, projectID, companyID uuid.UUID) error {
	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return err
	}
	return s.repo.AddCompany(ctx, projectID, companyID)
}

// RemoveCompany unlinks a company from the project.
func (s *Service) RemoveCompany(ctx context.Context, actor *policy.Actor, projectID, companyID uuid.UUID) error {
	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return err
	}
	return s.repo.RemoveCompany(ctx, projectID, companyID)
}

// ListCompanies returns the companies linked to the project.
func (s *Service) ListCompanies(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) ([]company.Company, error) {
	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListCompanies(ctx, projectID)
}

// AvailableCompanies returns candidates the actor could link to the project:
// their personal repository plus the project team's companies, minus
// companies already linked.
func (s *Service) AvailableCompanies(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) ([]company.Company, error) {
	p, _, err := s.accessibleProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return s.repo.AvailableCompanies(ctx, actor.UserID, projectID, p.TeamID)
}

// AddNote appends a note to the project. Blank text is rejected.
func (s *Service) AddNote(ctx context.Context, actor *policy.Actor, projectID uuid.UUID, text string) (*Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyNote
	}

	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return nil, err
	}

	n := &Note{ProjectID: projectID, Text: text}
	if err := s.repo.AddNote(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

// ListNotes returns the project's notes.
func (s *Service) ListNotes(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) ([]Note, error) {
	if _, _, err := s.accessibleProject(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, projectID)
}

// accessibleProject fetches the project and denies with ErrForbidden unless
// the actor created it or belongs to its team.
func (s *Service) accessibleProject(ctx context.Context, actor *policy.Actor, projectID uuid.UUID) (*Project, policy.MembershipSet, error) {
	if actor == nil {
		return nil, nil, ErrForbidden
	}

	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	memberships, err := s.memberships.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	facts := policy.ProjectFacts{CreatorID: p.CreatedBy, TeamID: p.TeamID}
	if !policy.CanAddCompanyToProject(actor, facts, memberships) {
		return nil, nil, ErrForbidden
	}

	return p, memberships, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.views != nil {
		s.views.Invalidate(ctx, keys...)
	}
}
