package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `id, name, industry, sales_volume, growth, website, phone, email, review, notes, created_by, team_id, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scanCompany(row pgx.Row, c *Company) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Industry, &c.SalesVolume, &c.Growth,
		&c.Website, &c.Phone, &c.Email, &c.Review, &c.Notes,
		&c.CreatedBy, &c.TeamID, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new company record.
func (r *PostgresRepository) Create(ctx context.Context, c *Company) error {
	query := `
		INSERT INTO companies (name, industry, sales_volume, growth, website, phone, email, review, notes, created_by, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.Name, c.Industry, c.SalesVolume, c.Growth, c.Website,
		c.Phone, c.Email, c.Review, c.Notes, c.CreatedBy, c.TeamID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting company: %w", err)
	}

	return nil
}

// GetByID retrieves a single company by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	var c Company
	if err := scanCompany(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("querying company: %w", err)
	}

	return &c, nil
}

// Update writes the company's descriptive fields.
func (r *PostgresRepository) Update(ctx context.Context, c *Company) error {
	query := `
		UPDATE companies
		SET name = $2, industry = $3, sales_volume = $4, growth = $5,
		    website = $6, phone = $7, email = $8, review = $9, notes = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Industry, c.SalesVolume, c.Growth,
		c.Website, c.Phone, c.Email, c.Review, c.Notes).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("updating company: %w", err)
	}

	return nil
}

// VisibleToUser computes the visible set in a single query. The three access
// paths (public, team-owned, personal repository) are OR-ed over the same
// table, so deduplication by id is inherent.
func (r *PostgresRepository) VisibleToUser(ctx context.Context, userID uuid.UUID) ([]Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		WHERE c.team_id IS NULL
		   OR c.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		   OR c.id IN (SELECT company_id FROM company_repository_entries WHERE user_id = $1)
		ORDER BY c.created_at DESC`

	return r.queryCompanies(ctx, query, userID)
}

// PersonalRepository returns the companies the user added to their own
// repository, regardless of company ownership.
func (r *PostgresRepository) PersonalRepository(ctx context.Context, userID uuid.UUID) ([]Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		JOIN company_repository_entries e ON e.company_id = c.id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC`

	return r.queryCompanies(ctx, query, userID)
}

// TeamRepository returns the companies owned by any team the user belongs to.
func (r *PostgresRepository) TeamRepository(ctx context.Context, userID uuid.UUID) ([]Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies c
		WHERE c.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		ORDER BY c.created_at DESC`

	return r.queryCompanies(ctx, query, userID)
}

func (r *PostgresRepository) queryCompanies(ctx context.Context, query string, args ...any) ([]Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		var c Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

// AddToRepository inserts a repository entry. The primary key on
// (company_id, user_id) makes concurrent duplicate inserts surface as
// ErrAlreadyInRepository, so retries are safe.
func (r *PostgresRepository) AddToRepository(ctx context.Context, userID, companyID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO company_repository_entries (company_id, user_id)
		VALUES ($1, $2)`, companyID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrAlreadyInRepository
			case "23503":
				return ErrCompanyNotFound
			}
		}
		return fmt.Errorf("inserting repository entry: %w", err)
	}

	return nil
}

// CreateAndAddToRepository inserts the company and its repository entry in a
// single transaction, closing the create-then-link partial failure gap.
func (r *PostgresRepository) CreateAndAddToRepository(ctx context.Context, c *Company, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO companies (name, industry, sales_volume, growth, website, phone, email, review, notes, created_by, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		c.Name, c.Industry, c.SalesVolume, c.Growth, c.Website,
		c.Phone, c.Email, c.Review, c.Notes, c.CreatedBy, c.TeamID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting company: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO company_repository_entries (company_id, user_id)
		VALUES ($1, $2)`, c.ID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyInRepository
		}
		return fmt.Errorf("inserting repository entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// RemoveFromRepository deletes the entry; deleting an absent entry is a no-op.
func (r *PostgresRepository) RemoveFromRepository(ctx context.Context, userID, companyID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM company_repository_entries
		WHERE company_id = $1 AND user_id = $2`, companyID, userID)
	if err != nil {
		return fmt.Errorf("deleting repository entry: %w", err)
	}

	return nil
}

// HasRepositoryEntry reports whether the user holds an entry for the company.
func (r *PostgresRepository) HasRepositoryEntry(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM company_repository_entries
			WHERE company_id = $1 AND user_id = $2
		)`, companyID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking repository entry: %w", err)
	}

	return exists, nil
}

// LinkToTeam attaches the company to a team. The team_id IS NULL guard keeps
// the transition one-way even under concurrent linkers: the loser sees
// ErrCompanyAlreadyLinked.
func (r *PostgresRepository) LinkToTeam(ctx context.Context, companyID, teamID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE companies
		SET team_id = $2, updated_at = now()
		WHERE id = $1 AND team_id IS NULL`, companyID, teamID)
	if err != nil {
		return fmt.Errorf("linking company to team: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, companyID); err != nil {
			return err
		}
		return ErrCompanyAlreadyLinked
	}

	return nil
}

// ListReviews returns all of a company's reviews, public and team, in
// insertion order. Visibility filtering and display ordering happen above the
// store in VisibleReviews.
func (r *PostgresRepository) ListReviews(ctx context.Context, companyID uuid.UUID) ([]Review, error) {
	query := `
		SELECT id, company_id, user_id, rating, comment, is_team_review, date, seq
		FROM reviews
		WHERE company_id = $1
		ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var rv Review
		err := rows.Scan(&rv.ID, &rv.CompanyID, &rv.UserID, &rv.Rating,
			&rv.Comment, &rv.IsTeamReview, &rv.Date, &rv.Seq)
		if err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review rows: %w", err)
	}

	return reviews, nil
}

// AddReview appends a review. Reviews are append-only; there is no update or
// delete path.
func (r *PostgresRepository) AddReview(ctx context.Context, rv *Review) error {
	query := `
		INSERT INTO reviews (company_id, user_id, rating, comment, is_team_review)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date, seq`

	err := r.pool.QueryRow(ctx, query,
		rv.CompanyID, rv.UserID, rv.Rating, rv.Comment, rv.IsTeamReview).
		Scan(&rv.ID, &rv.Date, &rv.Seq)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("inserting review: %w", err)
	}

	return nil
}

// ListComments returns a company's comments, most recent first.
func (r *PostgresRepository) ListComments(ctx context.Context, companyID uuid.UUID) ([]Comment, error) {
	query := `
		SELECT id, company_id, user_id, text, created_at
		FROM comments
		WHERE company_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}

	return comments, nil
}

// AddComment appends a comment.
func (r *PostgresRepository) AddComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (company_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, c.CompanyID, c.UserID, c.Text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("inserting comment: %w", err)
	}

	return nil
}
