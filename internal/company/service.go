package company

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/cache"
	"github.com/hitasa/salesshare/internal/policy"
)

// ErrForbidden is returned when the policy engine denies the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidRating is returned when a review rating is outside [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ErrEmptyComment is returned when a comment has no text.
var ErrEmptyComment = errors.New("comment text must not be empty")

// MembershipSource supplies team membership facts for policy decisions.
// Implemented by the team service.
type MembershipSource interface {
	MembershipSet(ctx context.Context, userID uuid.UUID) (policy.MembershipSet, error)
	TeamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// ViewCache caches materialized view results. Implementations must be
// fail-open: a miss or a backend error only means recompute.
type ViewCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, val any)
	Invalidate(ctx context.Context, keys ...string)
}

// Update carries a partial update of a company's descriptive fields.
// Nil pointers leave the field untouched.
type Update struct {
	Name        *string
	Industry    *string
	SalesVolume *string
	Growth      *string
	Website     *string
	Phone       *string
	Email       *string
	Review      *string
	Notes       *string
}

// Service enforces access policy around the company repository and keeps the
// view cache precise: every mutation invalidates exactly the views it affects.
type Service struct {
	repo        Repository
	memberships MembershipSource
	views       ViewCache
}

// NewService creates a new company Service. views may be nil when no cache is
// configured.
func NewService(repo Repository, memberships MembershipSource, views ViewCache) *Service {
	return &Service{repo: repo, memberships: memberships, views: views}
}

// VisibleCompanies returns every company the actor may see: the public
// catalogue, companies owned by the actor's teams, and the actor's personal
// repository, deduplicated by id.
func (s *Service) VisibleCompanies(ctx context.Context, actor *policy.Actor) ([]Company, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	key := cache.VisibleCompaniesKey(actor.UserID)
	var cached []Company
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	companies, err := s.repo.VisibleToUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, companies)
	return companies, nil
}

// PersonalRepository returns the actor's own repository partition.
func (s *Service) PersonalRepository(ctx context.Context, actor *policy.Actor) ([]Company, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	key := cache.PersonalRepositoryKey(actor.UserID)
	var cached []Company
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	companies, err := s.repo.PersonalRepository(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, companies)
	return companies, nil
}

// TeamRepository returns companies owned by any of the actor's teams. An
// actor without memberships gets an empty list.
func (s *Service) TeamRepository(ctx context.Context, actor *policy.Actor) ([]Company, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.repo.TeamRepository(ctx, actor.UserID)
}

// GetCompany returns a single company the actor may view.
func (s *Service) GetCompany(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) (*Company, error) {
	c, _, err := s.viewableCompany(ctx, actor, companyID)
	return c, err
}

// AddCompany persists an externally sourced company (e.g. a search result)
// with the actor as creator and adds it to the actor's repository, atomically.
func (s *Service) AddCompany(ctx context.Context, actor *policy.Actor, c *Company) error {
	if actor == nil {
		return ErrForbidden
	}

	c.CreatedBy = actor.UserID
	c.TeamID = nil
	if err := s.repo.CreateAndAddToRepository(ctx, c, actor.UserID); err != nil {
		return err
	}

	s.invalidate(ctx,
		cache.PersonalRepositoryKey(actor.UserID),
		cache.VisibleCompaniesKey(actor.UserID))
	return nil
}

// AddToRepository adds an existing company to the actor's repository. A second
// call for the same pair surfaces ErrAlreadyInRepository.
func (s *Service) AddToRepository(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) error {
	if actor == nil {
		return ErrForbidden
	}

	if err := s.repo.AddToRepository(ctx, actor.UserID, companyID); err != nil {
		return err
	}

	s.invalidate(ctx,
		cache.PersonalRepositoryKey(actor.UserID),
		cache.VisibleCompaniesKey(actor.UserID))
	return nil
}

// RemoveFromRepository removes the entry; removing an absent entry succeeds.
func (s *Service) RemoveFromRepository(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) error {
	if actor == nil {
		return ErrForbidden
	}

	if err := s.repo.RemoveFromRepository(ctx, actor.UserID, companyID); err != nil {
		return err
	}

	s.invalidate(ctx,
		cache.PersonalRepositoryKey(actor.UserID),
		cache.VisibleCompaniesKey(actor.UserID))
	return nil
}

// LinkToTeam attaches an unlinked company to a team the actor belongs to.
// The transition is one-way; a company that already has an owning team cannot
// be relinked, regardless of the actor's membership.
func (s *Service) LinkToTeam(ctx context.Context, actor *policy.Actor, companyID, teamID uuid.UUID) error {
	if actor == nil {
		return ErrForbidden
	}

	c, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}

	memberships, err := s.memberships.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return err
	}

	facts := policy.CompanyFacts{CreatorID: c.CreatedBy, TeamID: c.TeamID}
	if !policy.CanLinkCompanyToTeam(actor, facts, teamID, memberships) {
		return ErrForbidden
	}

	if err := s.repo.LinkToTeam(ctx, companyID, teamID); err != nil {
		return err
	}

	// The company just entered every team member's visible set.
	keys := []string{cache.VisibleCompaniesKey(actor.UserID)}
	if memberIDs, err := s.memberships.TeamMemberIDs(ctx, teamID); err == nil {
		for _, id := range memberIDs {
			keys = append(keys, cache.VisibleCompaniesKey(id))
		}
	}
	s.invalidate(ctx, keys...)

	return nil
}

// UpdateCompany applies a partial update. Only the creator or an admin of the
// owning team may edit.
func (s *Service) UpdateCompany(ctx context.Context, actor *policy.Actor, companyID uuid.UUID, upd Update) (*Company, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	c, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.memberships.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	facts := policy.CompanyFacts{CreatorID: c.CreatedBy, TeamID: c.TeamID}
	if !policy.CanEditCompany(actor, facts, memberships) {
		return nil, ErrForbidden
	}

	applyUpdate(c, upd)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.VisibleCompaniesKey(actor.UserID))
	return c, nil
}

// VisibleReviews returns the company's reviews the actor may see: all public
// reviews, plus team reviews when the actor is a member of the owning team.
// Ordered by date descending, insertion order breaking ties.
func (s *Service) VisibleReviews(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) ([]Review, error) {
	c, memberships, err := s.viewableCompany(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListReviews(ctx, companyID)
	if err != nil {
		return nil, err
	}

	includeTeam := c.TeamID != nil && memberships.Has(*c.TeamID)
	return VisibleReviews(reviews, includeTeam), nil
}

// AddReview appends a review. Team reviews require the company to be
// team-owned and the actor to be a member of that team.
func (s *Service) AddReview(ctx context.Context, actor *policy.Actor, companyID uuid.UUID, rating int, comment string, isTeamReview bool) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	c, memberships, err := s.viewableCompany(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}

	if isTeamReview {
		if c.TeamID == nil || !memberships.Has(*c.TeamID) {
			return nil, ErrForbidden
		}
	}

	rv := &Review{
		CompanyID:    companyID,
		UserID:       actor.UserID,
		Rating:       rating,
		Comment:      comment,
		IsTeamReview: isTeamReview,
	}
	if err := s.repo.AddReview(ctx, rv); err != nil {
		return nil, err
	}

	return rv, nil
}

// ListComments returns the company's comments. Comments carry no visibility
// flag: anyone who can view the company sees all of them.
func (s *Service) ListComments(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) ([]Comment, error) {
	if _, _, err := s.viewableCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, companyID)
}

// AddComment appends a comment. Blank text is rejected.
func (s *Service) AddComment(ctx context.Context, actor *policy.Actor, companyID uuid.UUID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	if _, _, err := s.viewableCompany(ctx, actor, companyID); err != nil {
		return nil, err
	}

	c := &Comment{CompanyID: companyID, UserID: actor.UserID, Text: text}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// viewableCompany fetches the company plus the facts needed for a view
// decision, and denies with ErrForbidden when the policy says no.
func (s *Service) viewableCompany(ctx context.Context, actor *policy.Actor, companyID uuid.UUID) (*Company, policy.MembershipSet, error) {
	if actor == nil {
		return nil, nil, ErrForbidden
	}

	c, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}

	memberships, err := s.memberships.MembershipSet(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	facts := policy.CompanyFacts{CreatorID: c.CreatedBy, TeamID: c.TeamID}
	if c.TeamID != nil && !memberships.Has(*c.TeamID) && c.CreatedBy != actor.UserID {
		facts.InRepository, err = s.repo.HasRepositoryEntry(ctx, actor.UserID, companyID)
		if err != nil {
			return nil, nil, err
		}
	}

	if !policy.CanViewCompany(actor, facts, memberships) {
		return nil, nil, ErrForbidden
	}

	return c, memberships, nil
}

func applyUpdate(c *Company, upd Update) {
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Industry != nil {
		c.Industry = *upd.Industry
	}
	if upd.SalesVolume != nil {
		c.SalesVolume = *upd.SalesVolume
	}
	if upd.Growth != nil {
		c.Growth = *upd.Growth
	}
	if upd.Website != nil {
		c.Website = *upd.Website
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Review != nil {
		c.Review = *upd.Review
	}
	if upd.Notes != nil {
		c.Notes = *upd.Notes
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.views == nil {
		return false
	}
	return s.views.Get(ctx, key, dest)
}

func (s *Service) cacheSet(ctx context.Context, key string, val any) {
	if s.views != nil {
		s.views.Set(ctx, key, val)
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.views != nil {
		s.views.Invalidate(ctx, keys...)
	}
}
