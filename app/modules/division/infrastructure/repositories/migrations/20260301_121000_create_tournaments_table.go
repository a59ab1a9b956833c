package divisionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournaments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tournaments (
					id UUID PRIMARY KEY,
					division_id UUID NOT NULL,
					season_id UUID NOT NULL,
					name TEXT NOT NULL,
					date TIMESTAMPTZ NOT NULL,
					deleted BOOLEAN NOT NULL DEFAULT FALSE,
					data JSONB NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_tournaments_division_season ON tournaments(division_id, season_id) WHERE deleted = FALSE;
			`); err != nil {
				return fmt.Errorf("failed to create tournaments table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournaments table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS tournaments;`); err != nil {
			return fmt.Errorf("failed to drop tournaments table: %w", err)
		}
		return nil
	})
}
