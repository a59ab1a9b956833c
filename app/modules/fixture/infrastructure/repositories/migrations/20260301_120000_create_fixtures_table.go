package fixturemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating fixtures table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS fixtures (
					id UUID PRIMARY KEY,
					division_id UUID NOT NULL,
					season_id UUID NOT NULL,
					home_team_id UUID NOT NULL,
					away_team_id UUID,
					date TIMESTAMPTZ NOT NULL,
					knockout BOOLEAN NOT NULL DEFAULT FALSE,
					deleted BOOLEAN NOT NULL DEFAULT FALSE,
					data JSONB NOT NULL,
					updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					editor TEXT
				);
				CREATE INDEX IF NOT EXISTS idx_fixtures_division_season ON fixtures(division_id, season_id) WHERE deleted = FALSE;
				CREATE INDEX IF NOT EXISTS idx_fixtures_home_team ON fixtures(home_team_id);
				CREATE INDEX IF NOT EXISTS idx_fixtures_away_team ON fixtures(away_team_id);
			`); err != nil {
				return fmt.Errorf("failed to create fixtures table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping fixtures table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS fixtures;`); err != nil {
			return fmt.Errorf("failed to drop fixtures table: %w", err)
		}
		return nil
	})
}
