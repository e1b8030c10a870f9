package project

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cohortlabs/worksync/internal/perrors"
)

const projectColumns = "id, user_id, team_id, name, description, link, status, created_at, updated_at"

// ProjectRepo handles database operations for projects. Every query is
// scoped by the owning user id, so a guessed id belonging to someone else
// matches zero rows.
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// ListByOwner returns the user's own projects, most recent first.
func (r *ProjectRepo) ListByOwner(ctx context.Context, userID string) ([]Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, projectColumns)

	var projects []Project
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to list projects", err)
	}
	return projects, nil
}

// ListSharedWithTeams returns projects shared with any of the given teams,
// newest first, capped at limit. This is the feed's project stage; the feed
// itself owns no rows.
func (r *ProjectRepo) ListSharedWithTeams(ctx context.Context, teamIDs []uuid.UUID, limit int) ([]Project, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE team_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`, projectColumns)

	var projects []Project
	err := r.db.SelectContext(ctx, &projects, query, pq.Array(teamIDs), limit)
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to list shared projects", err)
	}
	return projects, nil
}

// Insert creates a new project row. Id, owner and timestamps are assigned
// store-side.
func (r *ProjectRepo) Insert(ctx context.Context, userID string, req *CreateProjectRequest) (*Project, error) {
	query := fmt.Sprintf(`
		INSERT INTO projects (user_id, team_id, name, description, link, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, projectColumns)

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	var project Project
	err := r.db.GetContext(ctx, &project, query,
		userID, req.TeamID, req.Name, req.Description, req.Link, status)
	if err != nil {
		return nil, perrors.NewErrPersistenceFailure("failed to create project", err)
	}
	return &project, nil
}

// Update modifies the given fields, always stamping a fresh updated_at. The
// owner scope means updating another user's project resolves to not found.
func (r *ProjectRepo) Update(ctx context.Context, userID string, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *req.Description)
	}
	if req.Link != nil {
		setParts = append(setParts, fmt.Sprintf("link = $%d", len(args)+1))
		args = append(args, *req.Link)
	}
	if req.TeamID != nil {
		setParts = append(setParts, fmt.Sprintf("team_id = $%d", len(args)+1))
		args = append(args, *req.TeamID)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *req.Status)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id, userID)

	query := fmt.Sprintf(`
		UPDATE projects
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, strings.Join(setParts, ", "), len(args)-1, len(args), projectColumns)

	var project Project
	err := r.db.GetContext(ctx, &project, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, perrors.NewErrNotFound("project not found", err, map[string]interface{}{"id": id})
		}
		return nil, perrors.NewErrPersistenceFailure("failed to update project", err)
	}
	return &project, nil
}

// Delete removes the project if the caller owns it. Deleting a missing or
// non-owned id affects zero rows and is not an error.
func (r *ProjectRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return perrors.NewErrPersistenceFailure("failed to delete project", err)
	}
	return nil
}
