package team

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/perrors"
	"github.com/cohortlabs/worksync/internal/services/profile"
)

// TeamService is the team directory: it owns the caller's memberships, team
// metadata, invite issuance and redemption, and the combined teammate roster
// across all of the caller's teams.
type TeamService struct {
	repo     *TeamRepo
	profiles *profile.ProfileRepo

	mu        sync.Mutex
	teams     []Team
	teammates []profile.Profile
	userID    string
	gen       int
}

func NewTeamService(backend db.Backend) *TeamService {
	s := &TeamService{}
	if backend.Configured() {
		s.repo = NewTeamRepo(backend.DB())
		s.profiles = profile.NewProfileRepo(backend.DB())
	}
	return s
}

// Load resolves the caller's team set and teammate roster. The roster is the
// distinct set of co-members across all teams combined, excluding the caller.
func (s *TeamService) Load(ctx context.Context, userID string) ([]Team, []profile.Profile, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.userID = userID
	s.mu.Unlock()

	if s.repo == nil || userID == "" {
		s.commit(gen, nil, nil)
		return nil, nil, nil
	}

	// A failed load clears the directory: the previous identity's teams must
	// never stay visible to the new one, and the feed keys off TeamIDs.
	memberships, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		s.commit(gen, nil, nil)
		return nil, nil, err
	}

	// De-duplicate by team id; a user cannot double-count a team.
	seen := map[uuid.UUID]bool{}
	teams := make([]Team, 0, len(memberships))
	for _, t := range memberships {
		if !seen[t.ID] {
			seen[t.ID] = true
			teams = append(teams, t)
		}
	}

	if len(teams) == 0 {
		s.commit(gen, teams, nil)
		return s.Teams(), nil, nil
	}

	teamIDs := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	memberIDs, err := s.repo.MemberIDs(ctx, teamIDs)
	if err != nil {
		s.commit(gen, nil, nil)
		return nil, nil, err
	}

	others := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != userID {
			others = append(others, id)
		}
	}

	var teammates []profile.Profile
	if len(others) > 0 {
		teammates, err = s.profiles.ListByIDs(ctx, others)
		if err != nil {
			s.commit(gen, nil, nil)
			return nil, nil, err
		}
	}

	s.commit(gen, teams, teammates)
	return s.Teams(), s.Teammates(), nil
}

// CreateTeam issues a fresh invite code and inserts the team plus the
// creator's membership. A failed membership insert leaves a zero-member team
// behind, which is queryable and repairable, so it only logs.
func (s *TeamService) CreateTeam(ctx context.Context, name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, perrors.NewErrInvalidRequest("team name is required", nil)
	}

	userID, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	code, err := NewInviteCode()
	if err != nil {
		return nil, perrors.NewErrInternal("unable to generate invite code", err)
	}

	created, err := s.repo.Insert(ctx, name, code, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, created.ID, userID); err != nil {
		slog.Warn("Team created but creator membership insert failed",
			slog.String("team_id", created.ID.String()), slog.Any("error", err))
	}

	if _, _, err := s.Load(ctx, userID); err != nil {
		slog.Warn("Unable to refresh directory after team creation", slog.Any("error", err))
	}
	return created, nil
}

// JoinTeam normalizes and redeems an invite code. A code matching zero teams
// rejects without touching local state.
func (s *TeamService) JoinTeam(ctx context.Context, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return perrors.NewErrInvalidRequest("invite code is required", nil)
	}

	userID, err := s.requireUser()
	if err != nil {
		return err
	}

	teamID, err := s.repo.RedeemInvite(ctx, code, userID)
	if err != nil {
		return err
	}

	// Merge the joined team's metadata, idempotently by id, before the full
	// refresh fills in the roster.
	joined, err := s.repo.GetByID(ctx, teamID)
	if err == nil {
		s.mu.Lock()
		present := false
		for _, t := range s.teams {
			if t.ID == joined.ID {
				present = true
				break
			}
		}
		if !present {
			s.teams = append(s.teams, *joined)
		}
		s.mu.Unlock()
	}

	if _, _, err := s.Load(ctx, userID); err != nil {
		slog.Warn("Unable to refresh directory after join", slog.Any("error", err))
	}
	return nil
}

// Teams returns a copy of the caller's resolved team set.
func (s *TeamService) Teams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Team(nil), s.teams...)
}

// Teammates returns a copy of the combined roster.
func (s *TeamService) Teammates() []profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]profile.Profile(nil), s.teammates...)
}

// TeamIDs returns the caller's resolved team-id set, which the feed depends
// on.
func (s *TeamService) TeamIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, len(s.teams))
	for i, t := range s.teams {
		ids[i] = t.ID
	}
	return ids
}

func (s *TeamService) requireUser() (string, error) {
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

func (s *TeamService) commit(gen int, teams []Team, teammates []profile.Profile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.teams = teams
	s.teammates = teammates
	return true
}
