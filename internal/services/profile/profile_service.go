package profile

import (
	"context"
	"strings"

	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/perrors"
)

type ProfileService struct {
	repo *ProfileRepo
}

func NewProfileService(backend db.Backend) *ProfileService {
	s := &ProfileService{}
	if backend.Configured() {
		s.repo = NewProfileRepo(backend.DB())
	}
	return s
}

// GetOrCreate returns the user's profile, creating an empty one on first
// authenticated access.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*Profile, error) {
	if s.repo == nil {
		return nil, perrors.NewErrNotConfigured("no remote store configured")
	}

	p, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !perrors.Is(err, perrors.ErrCodeNotFound) {
		return nil, err
	}
	return s.repo.Upsert(ctx, userID, "")
}

// SetDisplayName updates (or lazily creates) the caller's display name.
func (s *ProfileService) SetDisplayName(ctx context.Context, userID, displayName string) (*Profile, error) {
	if s.repo == nil {
		return nil, perrors.NewErrNotConfigured("no remote store configured")
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, perrors.NewErrInvalidRequest("display name is required", nil)
	}
	return s.repo.Upsert(ctx, userID, displayName)
}
