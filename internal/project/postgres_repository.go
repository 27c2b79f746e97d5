package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hitasa/salesshare/internal/company"
)

const companyColumns = `c.id, c.name, c.industry, c.sales_volume, c.growth, c.website, c.phone, c.email, c.review, c.notes, c.created_by, c.team_id, c.created_at, c.updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new project record.
func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (name, description, created_by, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.Name, p.Description, p.CreatedBy, p.TeamID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, name, description, created_by, team_id, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.TeamID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	return &p, nil
}

// Delete removes a project. Company links and notes cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// VisibleToUser returns projects the user created plus projects shared with
// the user's teams. Both paths hit the same table, so dedup by id is inherent.
func (r *PostgresRepository) VisibleToUser(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	query := `
		SELECT id, name, description, created_by, team_id, created_at, updated_at
		FROM projects
		WHERE created_by = $1
		   OR team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.TeamID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

// AddCompany inserts a project-company association. The primary key on
// (project_id, company_id) makes concurrent duplicate inserts surface as
// ErrCompanyAlreadyInProject.
func (r *PostgresRepository) AddCompany(ctx context.Context, projectID, companyID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_companies (project_id, company_id)
		VALUES ($1, $2)`, projectID, companyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrCompanyAlreadyInProject
			case "23503":
				return company.ErrCompanyNotFound
			}
		}
		return fmt.Errorf("inserting project company: %w", err)
	}

	return nil
}

// RemoveCompany deletes a project-company association.
func (r *PostgresRepository) RemoveCompany(ctx context.Context, projectID, companyID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM project_companies
		WHERE project_id = $1 AND company_id = $2`, projectID, companyID)
	if err != nil {
		return fmt.Errorf("deleting project company: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCompanyNotInProject
	}

	return nil
}

// ListCompanies returns the companies linked to a project in link order.
func (r *PostgresRepository) ListCompanies(ctx context.Context, projectID uuid.UUID) ([]company.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		JOIN project_companies pc ON pc.company_id = c.id
		WHERE pc.project_id = $1
		ORDER BY pc.created_at ASC`

	return r.queryCompanies(ctx, query, projectID)
}

// AvailableCompanies returns link candidates: the user's personal repository
// union the project team's companies, minus those already linked.
func (r *PostgresRepository) AvailableCompanies(ctx context.Context, userID, projectID uuid.UUID, teamID *uuid.UUID) ([]company.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		WHERE (
		    c.id IN (SELECT company_id FROM company_repository_entries WHERE user_id = $1)
		    OR ($3::uuid IS NOT NULL AND c.team_id = $3)
		)
		AND c.id NOT IN (SELECT company_id FROM project_companies WHERE project_id = $2)
		ORDER BY c.created_at DESC`

	return r.queryCompanies(ctx, query, userID, projectID, teamID)
}

func (r *PostgresRepository) queryCompanies(ctx context.Context, query string, args ...any) ([]company.Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	companies := []company.Company{}
	for rows.Next() {
		var c company.Company
		err := rows.Scan(
			&c.ID, &c.Name, &c.Industry, &c.SalesVolume, &c.Growth,
			&c.Website, &c.Phone, &c.Email, &c.Review, &c.Notes,
			&c.CreatedBy, &c.TeamID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

// AddNote appends a note to a project.
func (r *PostgresRepository) AddNote(ctx context.Context, n *Note) error {
	query := `
		INSERT INTO project_notes (project_id, text)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, n.ProjectID, n.Text).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrProjectNotFound
		}
		return fmt.Errorf("inserting project note: %w", err)
	}

	return nil
}

// ListNotes returns a project's notes, most recent first.
func (r *PostgresRepository) ListNotes(ctx context.Context, projectID uuid.UUID) ([]Note, error) {
	query := `
		SELECT id, project_id, text, created_at
		FROM project_notes
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}

	return notes, nil
}
