package profile

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cohortlabs/worksync/internal/perrors"
)

type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, display_name, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perrors.NewErrNotFound("profile not found", err, map[string]interface{}{"id": id})
		}
		return nil, perrors.NewErrPersistenceFailure("failed to get profile", err)
	}
	return &p, nil
}

// ListByIDs returns the profiles that exist among ids; missing ids are simply
// absent from the result.
func (r *ProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, display_name, created_at, updated_at
		FROM profiles
		WHERE id = ANY($1)
	`

	var profiles []Profile
	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(ids))
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to list profiles", err)
	}
	return profiles, nil
}

// Upsert creates the row on first access and keeps later display-name
// changes idempotent.
func (r *ProfileRepo) Upsert(ctx context.Context, id, displayName string) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = NOW()
		RETURNING id, display_name, created_at, updated_at
	`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id, displayName)
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to upsert profile", err)
	}
	return &p, nil
}
