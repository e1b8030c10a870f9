package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20260713092415",
		up:      mig_20260713092415_user_progress_up,
		down:    mig_20260713092415_user_progress_down,
	})
}

func mig_20260713092415_user_progress_up(tx *sqlx.Tx) error {
	// One progress record per user, upserted whole on every change.
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			user_id TEXT NOT NULL UNIQUE,
			progress JSONB NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_progress_user_id ON user_progress(user_id);
	`)
	return err
}

func mig_20260713092415_user_progress_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS user_progress;`)
	return err
}
