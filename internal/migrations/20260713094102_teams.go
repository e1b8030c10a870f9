package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20260713094102",
		up:      mig_20260713094102_teams_up,
		down:    mig_20260713094102_teams_down,
	})
}

func mig_20260713094102_teams_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS teams (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			invite_code VARCHAR(16) NOT NULL UNIQUE,
			created_by TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS team_members (
			team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			PRIMARY KEY (team_id, user_id)
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id);
	`)
	if err != nil {
		return err
	}

	// Invite redemption has to be atomic at the store: resolve the code to
	// exactly one team and insert the caller's membership in one call.
	// Repeated joins are absorbed by ON CONFLICT DO NOTHING.
	_, err = tx.Exec(`
		CREATE OR REPLACE FUNCTION join_team_by_code(code TEXT, joiner TEXT)
		RETURNS UUID AS $$
		DECLARE
			matched UUID;
		BEGIN
			SELECT id INTO matched FROM teams WHERE invite_code = lower(trim(code));
			IF matched IS NULL THEN
				RAISE EXCEPTION 'no team for invite code' USING ERRCODE = 'P0002';
			END IF;
			INSERT INTO team_members (team_id, user_id) VALUES (matched, joiner)
			ON CONFLICT DO NOTHING;
			RETURN matched;
		END;
		$$ LANGUAGE plpgsql;
	`)
	return err
}

func mig_20260713094102_teams_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP FUNCTION IF EXISTS join_team_by_code(TEXT, TEXT);`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS team_members;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS teams;`)
	return err
}
