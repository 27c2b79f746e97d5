package project

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hitasa/salesshare/internal/company"
)

// ErrProjectNotFound is returned when a project record is not found.
var ErrProjectNotFound = errors.New("project not found")

// ErrCompanyAlreadyInProject is returned when the (project, company) pair
// already exists.
var ErrCompanyAlreadyInProject = errors.New("company already in project")

// ErrCompanyNotInProject is returned when removing an absent association.
var ErrCompanyNotInProject = errors.New("company not in project")

// Repository provides operations on projects, their notes and their company
// associations.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	// Delete removes the project; company links and notes cascade.
	Delete(ctx context.Context, id uuid.UUID) error
	// VisibleToUser returns projects created by the user plus projects shared
	// with any of the user's teams, deduplicated by id.
	VisibleToUser(ctx context.Context, userID uuid.UUID) ([]Project, error)

	AddCompany(ctx context.Context, projectID, companyID uuid.UUID) error
	RemoveCompany(ctx context.Context, projectID, companyID uuid.UUID) error
	ListCompanies(ctx context.Context, projectID uuid.UUID) ([]company.Company, error)
	// AvailableCompanies returns candidates for linking: the user's personal
	// repository plus the companies of the project's team (when shared),
	// minus companies already linked, deduplicated by id.
	AvailableCompanies(ctx context.Context, userID, projectID uuid.UUID, teamID *uuid.UUID) ([]company.Company, error)

	AddNote(ctx context.Context, n *Note) error
	ListNotes(ctx context.Context, projectID uuid.UUID) ([]Note, error)
}
