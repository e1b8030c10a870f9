package team

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cohortlabs/worksync/internal/perrors"
)

// Postgres error codes the directory reacts to.
const (
	pgUniqueViolation = "23505"
	pgNoDataFound     = "P0002"
)

type TeamRepo struct {
	db *sqlx.DB
}

func NewTeamRepo(db *sqlx.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// ListByMember returns every team the user belongs to.
func (r *TeamRepo) ListByMember(ctx context.Context, userID string) ([]Team, error) {
	query := `
		SELECT t.id, t.name, t.invite_code, t.created_by, t.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
	`

	var teams []Team
	err := r.db.SelectContext(ctx, &teams, query, userID)
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to list memberships", err)
	}
	return teams, nil
}

// MemberIDs returns the distinct user ids across the given team set.
func (r *TeamRepo) MemberIDs(ctx context.Context, teamIDs []uuid.UUID) ([]string, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT user_id
		FROM team_members
		WHERE team_id = ANY($1)
	`

	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, query, pq.Array(teamIDs))
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to list team members", err)
	}
	return ids, nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, invite_code, created_by, created_at
		FROM teams
		WHERE id = $1
	`

	var t Team
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perrors.NewErrNotFound("team not found", err, map[string]interface{}{"id": id})
		}
		return nil, perrors.NewErrPersistenceFailure("failed to get team", err)
	}
	return &t, nil
}

// Insert creates the team row. An invite-code collision trips the store's
// unique constraint and comes back as a retryable conflict.
func (r *TeamRepo) Insert(ctx context.Context, name, inviteCode, createdBy string) (*Team, error) {
	query := `
		INSERT INTO teams (name, invite_code, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, invite_code, created_by, created_at
	`

	var t Team
	err := r.db.GetContext(ctx, &t, query, name, inviteCode, createdBy)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && string(pgErr.Code) == pgUniqueViolation {
			return nil, perrors.NewErrConflict("invite code already taken, retry team creation", err)
		}
		return nil, perrors.NewErrPersistenceFailure("failed to create team", err)
	}
	return &t, nil
}

func (r *TeamRepo) AddMember(ctx context.Context, teamID uuid.UUID, userID string) error {
	query := `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return perrors.NewErrPersistenceFailure("failed to add team member", err)
	}
	return nil
}

// RedeemInvite runs the store-side atomic redemption: the code must resolve
// to exactly one team and the caller's membership row is inserted in the same
// call.
func (r *TeamRepo) RedeemInvite(ctx context.Context, code, userID string) (uuid.UUID, error) {
	query := `SELECT join_team_by_code($1, $2)`

	var teamID uuid.UUID
	err := r.db.GetContext(ctx, &teamID, query, code, userID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && string(pgErr.Code) == pgNoDataFound {
			return uuid.Nil, perrors.NewErrNotFound("no team for invite code", err, map[string]interface{}{"code": code})
		}
		return uuid.Nil, perrors.NewErrPersistenceFailure("failed to redeem invite code", err)
	}
	return teamID, nil
}
