package license

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByUserID retrieves the user's license record.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*License, error) {
	query := `
		SELECT id, user_id, license_type, active, starts_at, expires_at, created_at
		FROM user_licenses
		WHERE user_id = $1`

	var l License
	err := r.pool.QueryRow(ctx, query, userID).
		Scan(&l.ID, &l.UserID, &l.Type, &l.Active, &l.StartsAt, &l.ExpiresAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("querying license: %w", err)
	}

	return &l, nil
}

// Upsert writes the user's license record. The unique constraint on user_id
// keeps one license per user.
func (r *PostgresRepository) Upsert(ctx context.Context, l *License) error {
	query := `
		INSERT INTO user_licenses (user_id, license_type, active, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET license_type = EXCLUDED.license_type,
		    active = EXCLUDED.active,
		    starts_at = EXCLUDED.starts_at,
		    expires_at = EXCLUDED.expires_at
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, l.UserID, l.Type, l.Active, l.StartsAt, l.ExpiresAt).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting license: %w", err)
	}

	return nil
}
