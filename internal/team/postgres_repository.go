package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (name, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Name, t.CreatedBy).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// Delete removes a team by its UUID. Memberships and invitations cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// ListForUser retrieves all teams the user belongs to, ordered by creation time.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	query := `
		SELECT t.id, t.name, t.created_by, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams for user: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// AddMember inserts a membership row. The primary key on (team_id, user_id)
// makes concurrent duplicate inserts surface as ErrMembershipExists.
func (r *PostgresRepository) AddMember(ctx context.Context, m *Membership) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, m.TeamID, m.UserID, m.Role).Scan(&m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrMembershipExists
		}
		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
}

// RemoveMember deletes a membership row.
func (r *PostgresRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// ListMembers retrieves the team's members joined with user display fields.
func (r *PostgresRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	query := `
		SELECT u.id, u.email, u.name, tm.role, tm.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at ASC`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.Name, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

// MembershipsForUser retrieves all of the user's memberships.
func (r *PostgresRepository) MembershipsForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	query := `
		SELECT team_id, user_id, role, created_at
		FROM team_members
		WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()

	memberships := []Membership{}
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating membership rows: %w", err)
	}

	return memberships, nil
}

// MemberIDs retrieves the user IDs of all members of a team.
func (r *PostgresRepository) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing member ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member ids: %w", err)
	}

	return ids, nil
}

// CreateInvitation inserts a new invitation record with pending status.
func (r *PostgresRepository) CreateInvitation(ctx context.Context, inv *Invitation) error {
	query := `
		INSERT INTO team_invitations (team_id, email, role, invited_by, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at`

	err := r.pool.QueryRow(ctx, query, inv.TeamID, inv.Email, inv.Role, inv.InvitedBy, inv.ExpiresAt).
		Scan(&inv.ID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting invitation: %w", err)
	}

	return nil
}

// GetInvitationByID retrieves a single invitation joined with its team name.
func (r *PostgresRepository) GetInvitationByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	query := `
		SELECT i.id, i.team_id, t.name, i.email, i.role, i.status, i.invited_by, i.expires_at, i.created_at
		FROM team_invitations i
		JOIN teams t ON t.id = i.team_id
		WHERE i.id = $1`

	var inv Invitation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.TeamID, &inv.TeamName, &inv.Email, &inv.Role,
		&inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("querying invitation: %w", err)
	}

	return &inv, nil
}

// ListInvitationsForTeam retrieves all invitations for a team, newest first.
func (r *PostgresRepository) ListInvitationsForTeam(ctx context.Context, teamID uuid.UUID) ([]Invitation, error) {
	query := `
		SELECT i.id, i.team_id, t.name, i.email, i.role, i.status, i.invited_by, i.expires_at, i.created_at
		FROM team_invitations i
		JOIN teams t ON t.id = i.team_id
		WHERE i.team_id = $1
		ORDER BY i.created_at DESC`

	return r.queryInvitations(ctx, query, teamID)
}

// ListPendingInvitationsForEmail retrieves unexpired pending invitations
// addressed to the given email, newest first.
func (r *PostgresRepository) ListPendingInvitationsForEmail(ctx context.Context, email string) ([]Invitation, error) {
	query := `
		SELECT i.id, i.team_id, t.name, i.email, i.role, i.status, i.invited_by, i.expires_at, i.created_at
		FROM team_invitations i
		JOIN teams t ON t.id = i.team_id
		WHERE lower(i.email) = lower($1) AND i.status = 'pending' AND i.expires_at > now()
		ORDER BY i.created_at DESC`

	return r.queryInvitations(ctx, query, email)
}

func (r *PostgresRepository) queryInvitations(ctx context.Context, query string, arg any) ([]Invitation, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	defer rows.Close()

	invitations := []Invitation{}
	for rows.Next() {
		var inv Invitation
		err := rows.Scan(&inv.ID, &inv.TeamID, &inv.TeamName, &inv.Email, &inv.Role,
			&inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invitation rows: %w", err)
	}

	return invitations, nil
}

// AcceptInvitation transitions the invitation to accepted and inserts the
// membership in one transaction. The guarded UPDATE makes concurrent responses
// race safely: exactly one wins, the rest see ErrInvitationNotPending.
func (r *PostgresRepository) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var teamID uuid.UUID
	var role string
	err = tx.QueryRow(ctx, `
		UPDATE team_invitations
		SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
		RETURNING team_id, role`, invitationID).Scan(&teamID, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvitationNotPending
		}
		return fmt.Errorf("accepting invitation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)`, teamID, userID, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrMembershipExists
		}
		return fmt.Errorf("inserting membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeclineInvitation transitions the invitation to declined.
func (r *PostgresRepository) DeclineInvitation(ctx context.Context, invitationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE team_invitations
		SET status = 'declined'
		WHERE id = $1 AND status = 'pending'`, invitationID)
	if err != nil {
		return fmt.Errorf("declining invitation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInvitationNotPending
	}

	return nil
}
