package services

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/cohortlabs/worksync/internal/config"
	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/localstore"
	"github.com/cohortlabs/worksync/internal/services/feed"
	"github.com/cohortlabs/worksync/internal/services/profile"
	"github.com/cohortlabs/worksync/internal/services/progress"
	"github.com/cohortlabs/worksync/internal/services/project"
	"github.com/cohortlabs/worksync/internal/services/team"
	"github.com/cohortlabs/worksync/internal/session"
)

type Services struct {
	Session  *session.Manager
	Progress *progress.Store
	Project  *project.ProjectService
	Team     *team.TeamService
	Profile  *profile.ProfileService
	Feed     *feed.FeedService
}

func NewServices(conf *config.Config) *Services {
	backend := db.Open(conf)
	local := localstore.New(conf.LOCAL_STORE_PATH)

	var rdb *redis.Client
	if conf.REDIS_ADDR != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     conf.REDIS_ADDR,
			Password: conf.REDIS_PASSWORD,
		})
	}

	sess := session.NewManager()
	teamSvc := team.NewTeamService(backend)

	svc := &Services{
		Session:  sess,
		Progress: progress.NewStore(backend, local, conf.PROGRESS_TIMEOUT),
		Project:  project.NewProjectService(backend),
		Team:     teamSvc,
		Profile:  profile.NewProfileService(backend),
		Feed:     feed.NewFeedService(backend, teamSvc, rdb),
	}

	// Every component re-initializes from the new identity; in-flight loads
	// for the previous identity are discarded by each component's own
	// generation guard.
	sess.Subscribe(func(userID string, signedIn bool) {
		ctx := context.Background()

		if signedIn {
			if _, err := svc.Profile.GetOrCreate(ctx, userID); err != nil {
				slog.Warn("Unable to prepare profile", slog.Any("error", err))
			}
		}

		svc.Progress.Load(ctx, userID)
		if _, err := svc.Project.Load(ctx, userID); err != nil {
			slog.Warn("Unable to load projects", slog.Any("error", err))
		}
		if _, _, err := svc.Team.Load(ctx, userID); err != nil {
			slog.Warn("Unable to load team directory", slog.Any("error", err))
		}
	})

	return svc
}
