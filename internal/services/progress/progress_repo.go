package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cohortlabs/worksync/internal/perrors"
)

// RemoteStore is the remote side of the progress record: one row per user,
// replaced whole on every write.
type RemoteStore interface {
	Fetch(ctx context.Context, userID string) (Weeks, error)
	Upsert(ctx context.Context, userID string, weeks Weeks, updatedAt time.Time) error
}

type ProgressRepo struct {
	db *sqlx.DB
}

func NewProgressRepo(db *sqlx.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

var _ RemoteStore = (*ProgressRepo)(nil)

func (r *ProgressRepo) Fetch(ctx context.Context, userID string) (Weeks, error) {
	query := `
		SELECT progress
		FROM user_progress
		WHERE user_id = $1
	`

	var weeks Weeks
	err := r.db.GetContext(ctx, &weeks, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perrors.NewErrNotFound("no progress record for user", err, map[string]interface{}{"user_id": userID})
		}
		return nil, perrors.NewErrPersistenceFailure("failed to fetch progress record", err)
	}
	return weeks, nil
}

func (r *ProgressRepo) Upsert(ctx context.Context, userID string, weeks Weeks, updatedAt time.Time) error {
	query := `
		INSERT INTO user_progress (user_id, progress, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET progress = EXCLUDED.progress, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, userID, weeks, updatedAt)
	if err != nil {
		return perrors.NewErrPersistenceFailure("failed to upsert progress record", err)
	}
	return nil
}
