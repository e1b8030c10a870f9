package project

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/perrors"
)

// ProjectService owns the signed-in user's project collection. Unlike the
// progress store, every mutation here waits for the remote store to confirm
// before the in-memory list changes, and failures propagate to the caller.
type ProjectService struct {
	repo *ProjectRepo

	mu       sync.Mutex
	projects []Project
	userID   string
	gen      int
}

func NewProjectService(backend db.Backend) *ProjectService {
	s := &ProjectService{}
	if backend.Configured() {
		s.repo = NewProjectRepo(backend.DB())
	}
	return s
}

// Load fetches the user's own projects, most recent first. Without a remote
// backend or a signed-in user the collection is empty; that is not an error.
func (s *ProjectService) Load(ctx context.Context, userID string) ([]Project, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.userID = userID
	s.mu.Unlock()

	if s.repo == nil || userID == "" {
		s.commit(gen, nil)
		return nil, nil
	}

	projects, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.commit(gen, nil)
		return nil, err
	}
	if !s.commit(gen, projects) {
		return nil, nil
	}
	return s.Projects(), nil
}

// Add shares a new project. The new entry is prepended once the insert
// confirms, keeping the most-recent-first invariant.
func (s *ProjectService) Add(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, perrors.NewErrInvalidRequest("project name is required", nil)
	}

	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = append([]Project{*created}, s.projects...)
	s.mu.Unlock()
	return created, nil
}

// Update modifies one of the caller's projects in place, ordering unchanged.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, perrors.NewErrInvalidRequest("project name is required", nil)
		}
		req.Name = &trimmed
	}

	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Remove deletes one of the caller's projects. Removing an id the caller does
// not own is a silent no-op.
func (s *ProjectService) Remove(ctx context.Context, id uuid.UUID) error {
	userID, err := s.requireUser()
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	s.mu.Unlock()
	return nil
}

// Projects returns a copy of the current in-memory collection.
func (s *ProjectService) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.projects...)
}

func (s *ProjectService) requireUser() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return "", perrors.NewErrNotConfigured("no remote store configured")
	}
	if s.userID == "" {
		return "", perrors.NewErrInvalidRequest("not signed in", nil)
	}
	return s.userID, nil
}

// commit installs the fetched collection unless a newer Load superseded it.
func (s *ProjectService) commit(gen int, projects []Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.projects = projects
	return true
}
