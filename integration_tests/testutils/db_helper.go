package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	divisionmigrations "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories/migrations"
	fixturemigrations "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories/migrations"
	rostermigrations "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories/migrations"
)

// RunMigrations runs all module migrations. Order matters due to foreign
// key constraints (teams before fixtures).
func RunMigrations(ctx context.Context, db *bun.DB) error {
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"roster", rostermigrations.Migrations},
		{"fixture", fixturemigrations.Migrations},
		{"division", divisionmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		if err := runModuleMigrations(ctx, db, mod.migrations, mod.name); err != nil {
			return err
		}
	}
	log.Println("All migrations ran successfully")
	return nil
}

// runModuleMigrations runs migrations for a specific module, tracked in the
// module's own migration table.
func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName(name+"_bun_migrations"),
		migrate.WithLocksTableName(name+"_bun_migration_locks"),
	)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s migration tables: %w", name, err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.ID == 0 {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

// appTables lists every application table.
var appTables = []string{"team_season_players", "team_seasons", "players", "teams", "fixtures", "tournaments"}

// TruncateTables truncates the specified tables.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " CASCADE"
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanAllTables truncates all tables for complete isolation between tests.
func CleanAllTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, appTables...)
}
