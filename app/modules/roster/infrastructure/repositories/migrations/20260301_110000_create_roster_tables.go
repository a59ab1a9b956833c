package rostermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating teams, players and team_seasons tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL,
					address TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE TABLE IF NOT EXISTS players (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create teams and players tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS team_seasons (
					team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					season_id UUID NOT NULL,
					PRIMARY KEY (team_id, season_id)
				);
				CREATE TABLE IF NOT EXISTS team_season_players (
					team_id UUID NOT NULL,
					season_id UUID NOT NULL,
					player_id UUID NOT NULL REFERENCES players(id) ON DELETE CASCADE,
					PRIMARY KEY (team_id, season_id, player_id),
					FOREIGN KEY (team_id, season_id) REFERENCES team_seasons(team_id, season_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_team_seasons_season ON team_seasons(season_id);
			`); err != nil {
				return fmt.Errorf("failed to create season registration tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping roster tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS team_season_players;
				DROP TABLE IF EXISTS team_seasons;
				DROP TABLE IF EXISTS players;
				DROP TABLE IF EXISTS teams;
			`); err != nil {
				return fmt.Errorf("failed to drop roster tables: %w", err)
			}
			return nil
		})
	})
}
