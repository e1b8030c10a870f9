package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cohortlabs/worksync/internal/config"
	"github.com/cohortlabs/worksync/internal/perrors"
)

// Backend is the capability selection made once at startup: either a remote
// store handle exists, or the system runs local-only. Components receive a
// Backend instead of sprinkling nil checks over their logic.
type Backend struct {
	db *sqlx.DB
}

func None() Backend {
	return Backend{}
}

func Remote(db *sqlx.DB) Backend {
	return Backend{db: db}
}

func (b Backend) Configured() bool {
	return b.db != nil
}

func (b Backend) DB() *sqlx.DB {
	return b.db
}

func NewConn(conf *config.Config) (*sqlx.DB, error) {
	str := fmt.Sprintf("postgresql://%v:%v@%v:%v/%v", conf.DB_USERNAME, conf.DB_PASSWORD, conf.DB_HOST, conf.DB_PORT, conf.DB_NAME)
	if conf.DISABLE_TLS == "true" {
		str = str + "?sslmode=disable"
	}
	slog.Info("Connecting to database")

	db, err := sqlx.Open("postgres", str)
	if err != nil {
		return nil, perrors.NewErrNotConfigured("unable to open database connection")
	}
	if err := db.Ping(); err != nil {
		return nil, perrors.New(perrors.ErrCodeNotConfigured, "unable to reach database", err)
	}

	slog.Info("Connected to database")

	return db, nil
}

// Open resolves the backend variant for this session. A missing or
// unreachable remote store degrades to None rather than failing startup.
func Open(conf *config.Config) Backend {
	if !conf.RemoteConfigured() {
		slog.Info("No remote store configured, running local-only")
		return None()
	}

	conn, err := NewConn(conf)
	if err != nil {
		slog.Warn("Remote store unreachable, running local-only", slog.Any("error", err))
		return None()
	}
	return Remote(conn)
}
