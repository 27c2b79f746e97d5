package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCompanyNotFound is returned when a company record is not found.
var ErrCompanyNotFound = errors.New("company not found")

// ErrAlreadyInRepository is returned when the user already has a repository
// entry for the company.
var ErrAlreadyInRepository = errors.New("company already in repository")

// ErrCompanyAlreadyLinked is returned when linking a company that already has
// an owning team. Linking is one-way; there is no unlink.
var ErrCompanyAlreadyLinked = errors.New("company already linked to a team")

// Repository provides operations on companies, repository entries, reviews
// and comments.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Update(ctx context.Context, c *Company) error

	// VisibleToUser returns the union, deduplicated by company id, of the
	// public catalogue, companies owned by the user's teams, and companies
	// in the user's personal repository.
	VisibleToUser(ctx context.Context, userID uuid.UUID) ([]Company, error)
	PersonalRepository(ctx context.Context, userID uuid.UUID) ([]Company, error)
	TeamRepository(ctx context.Context, userID uuid.UUID) ([]Company, error)

	AddToRepository(ctx context.Context, userID, companyID uuid.UUID) error
	// CreateAndAddToRepository inserts the company and the repository entry
	// in a single transaction: either both rows exist afterwards or neither.
	CreateAndAddToRepository(ctx context.Context, c *Company, userID uuid.UUID) error
	// RemoveFromRepository is idempotent: removing an absent entry succeeds.
	RemoveFromRepository(ctx context.Context, userID, companyID uuid.UUID) error
	HasRepositoryEntry(ctx context.Context, userID, companyID uuid.UUID) (bool, error)

	// LinkToTeam sets the company's owning team, guarded so only the
	// unlinked -> linked transition can happen.
	LinkToTeam(ctx context.Context, companyID, teamID uuid.UUID) error

	ListReviews(ctx context.Context, companyID uuid.UUID) ([]Review, error)
	AddReview(ctx context.Context, rv *Review) error
	ListComments(ctx context.Context, companyID uuid.UUID) ([]Comment, error)
	AddComment(ctx context.Context, c *Comment) error
}
