package feed

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/services/profile"
	"github.com/cohortlabs/worksync/internal/services/project"
)

// TeamDirectory is the slice of the team service the feed depends on: the
// caller's resolved team-id set.
type TeamDirectory interface {
	TeamIDs() []uuid.UUID
}

// FeedService assembles the cross-user activity feed. The remote store does
// not pre-join anything, so this is an explicit three-stage read pipeline:
// team ids from the directory, shared projects from the project table, then
// author display names. The feed owns no rows and is never a source of
// truth.
type FeedService struct {
	directory TeamDirectory
	projects  *project.ProjectRepo
	profiles  *profile.ProfileRepo
	names     *nameCache
	tracer    trace.Tracer
}

func NewFeedService(backend db.Backend, directory TeamDirectory, rdb *redis.Client) *FeedService {
	s := &FeedService{
		directory: directory,
		tracer:    otel.Tracer("worksync/feed"),
	}
	if backend.Configured() {
		s.projects = project.NewProjectRepo(backend.DB())
		s.profiles = profile.NewProfileRepo(backend.DB())
	}
	if rdb != nil {
		s.names = newNameCache(rdb)
	}
	return s
}

// Load returns the feed for the given viewer, newest first, capped at Limit.
// A viewer with no teams gets an empty feed, not an error. The viewer's own
// shared projects are included; visibility is "shared with a team I belong
// to", nothing more.
func (s *FeedService) Load(ctx context.Context, userID string) ([]FeedEntry, error) {
	ctx, span := s.tracer.Start(ctx, "feed.load")
	defer span.End()

	if s.projects == nil || userID == "" {
		return nil, nil
	}

	teamIDs := s.directory.TeamIDs()
	span.SetAttributes(attribute.Int("feed.team_count", len(teamIDs)))
	if len(teamIDs) == 0 {
		return nil, nil
	}

	shared, err := s.loadProjects(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 {
		return nil, nil
	}

	names := s.loadAuthorNames(ctx, shared)

	entries := make([]FeedEntry, len(shared))
	for i, p := range shared {
		name, ok := names[p.UserID]
		if !ok || name == "" {
			name = PlaceholderAuthor
		}
		entries[i] = FeedEntry{Project: p, AuthorName: name}
	}
	return entries, nil
}

func (s *FeedService) loadProjects(ctx context.Context, teamIDs []uuid.UUID) ([]project.Project, error) {
	ctx, span := s.tracer.Start(ctx, "feed.projects")
	defer span.End()

	shared, err := s.projects.ListSharedWithTeams(ctx, teamIDs, Limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.project_count", len(shared)))
	return shared, nil
}

// loadAuthorNames resolves distinct author ids to display names. This stage
// only degrades: a failed lookup leaves authors on the placeholder instead of
// aborting the pipeline.
func (s *FeedService) loadAuthorNames(ctx context.Context, shared []project.Project) map[string]string {
	ctx, span := s.tracer.Start(ctx, "feed.profiles")
	defer span.End()

	seen := map[string]bool{}
	authorIDs := []string{}
	for _, p := range shared {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	names, missing := s.names.Lookup(ctx, authorIDs)
	if len(missing) == 0 {
		return names
	}

	profiles, err := s.profiles.ListByIDs(ctx, missing)
	if err != nil {
		slog.Warn("Author profile lookup failed, using placeholder names", slog.Any("error", err))
		return names
	}

	fetched := map[string]string{}
	for _, p := range profiles {
		if p.DisplayName != "" {
			names[p.ID] = p.DisplayName
			fetched[p.ID] = p.DisplayName
		}
	}
	s.names.Store(ctx, fetched)
	return names
}
