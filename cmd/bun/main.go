package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/dart-league/app"
	"github.com/Black-And-White-Club/dart-league/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	// Import for migrator creation
	divisionmigrations "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories/migrations"
	fixturemigrations "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories/migrations"
	rostermigrations "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories/migrations"
)

// moduleMigrator pairs a module with its migrator. Modules migrate in slice
// order so referenced tables exist first.
type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

func main() {
	// Load configuration for database connection ONLY
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := app.OpenDB(cfg.Postgres.DSN)
	defer db.Close()

	migrators := newMigrators(db)

	cliApp := &cli.App{
		Name: "bun",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(migrators),
		},
	}

	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

func newMigrators(db *bun.DB) []moduleMigrator {
	mk := func(name string, migrations *migrate.Migrations) moduleMigrator {
		return moduleMigrator{
			name: name,
			migrator: migrate.NewMigrator(db, migrations,
				migrate.WithTableName(name+"_bun_migrations"),
				migrate.WithLocksTableName(name+"_bun_migration_locks"),
			),
		}
	}
	return []moduleMigrator{
		mk("roster", rostermigrations.Migrations),
		mk("fixture", fixturemigrations.Migrations),
		mk("division", divisionmigrations.Migrations),
	}
}

func lookup(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s", name)
}

func newMultiModuleDBCommand(migrators []moduleMigrator) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("initializing migrations for module %s: %w", m.name, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for _, m := range migrators {
						fmt.Printf("Running migrations for module: %s\n", m.name)
						if err := m.migrator.Lock(c.Context); err != nil {
							return err
						}
						group, err := m.migrator.Migrate(c.Context)
						if unlockErr := m.migrator.Unlock(c.Context); unlockErr != nil && err == nil {
							err = unlockErr
						}
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					// Roll back in reverse so dependants go first.
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, err := lookup(migrators, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, m := range migrators {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}
