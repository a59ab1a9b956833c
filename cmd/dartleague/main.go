package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/dart-league/app"
	divisionservice "github.com/Black-And-White-Club/dart-league/app/modules/division/application"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	divisiondb "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	rosterservice "github.com/Black-And-White-Club/dart-league/app/modules/roster/application"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/asof"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability"
	"github.com/Black-And-White-Club/dart-league/config"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "dartleague",
		Usage: "dart league results service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			standingsCommand(),
			rosterCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and event subscribers",
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, obs, err := bootstrap(ctx, c.String("config"))
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = obs.Shutdown(shutdownCtx)
			}()

			application := app.NewApp(cfg, obs)
			if err := application.Initialize(ctx); err != nil {
				_ = application.Close()
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			runErr := application.Run(ctx)
			closeErr := application.Close()
			if runErr != nil {
				return runErr
			}
			return closeErr
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print or export a division season's standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "division", Required: true, Usage: "division ID"},
			&cli.StringFlag{Name: "season", Required: true, Usage: "season ID"},
			&cli.StringFlag{Name: "as-of", Usage: `evaluate visibility at a time, e.g. "2026-03-12" or "last friday"`},
			&cli.StringFlag{Name: "format", Value: "json", Usage: "json, xlsx or png"},
			&cli.StringFlag{Name: "out", Usage: "output file (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context
			divisionID, err := uuid.Parse(c.String("division"))
			if err != nil {
				return fmt.Errorf("invalid division id: %w", err)
			}
			seasonID, err := uuid.Parse(c.String("season"))
			if err != nil {
				return fmt.Errorf("invalid season id: %w", err)
			}
			render, err := renderer(c.String("format"))
			if err != nil {
				return err
			}

			cfg, obs, err := bootstrap(ctx, c.String("config"))
			if err != nil {
				return err
			}
			db := app.OpenDB(cfg.Postgres.DSN)
			defer db.Close()

			clk := clock.RealClock{}
			policy := divisiondomain.PointsPolicy{Win: cfg.Scoring.Win, Draw: cfg.Scoring.Draw, Loss: cfg.Scoring.Loss}
			service := divisionservice.NewDivisionService(
				fixturedb.NewRepository(db),
				divisiondb.NewRepository(db),
				rosterdb.NewRepository(db),
				cfg.Features.Flags(),
				clk,
				policy,
				obs.Logger,
				obs.Metrics,
				obs.Tracer("cli"),
				db,
			)

			var result *divisiondomain.Result
			if raw := c.String("as-of"); raw != "" {
				loc, err := cfg.League.Location()
				if err != nil {
					return fmt.Errorf("invalid league timezone: %w", err)
				}
				at, err := asof.NewParser(loc).Parse(raw, clk)
				if err != nil {
					return err
				}
				obs.Logger.InfoContext(ctx, "Evaluating standings as of", "as_of", at.Format(time.RFC3339))
				result, err = service.StandingsAsOf(ctx, divisionID, seasonID, at)
				if err != nil {
					return err
				}
			} else {
				result, err = service.Standings(ctx, divisionID, seasonID)
				if err != nil {
					return err
				}
			}

			data, err := render(*result)
			if err != nil {
				return err
			}
			return writeOutput(c.String("out"), c.App.Writer, data)
		},
	}
}

func rosterCommand() *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "manage team squads",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "register squads for a season from an XLSX sheet with Team and Player columns",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "season", Required: true, Usage: "season ID"},
					&cli.StringFlag{Name: "file", Required: true, Usage: "XLSX workbook"},
				},
				Action: func(c *cli.Context) error {
					ctx := c.Context
					seasonID, err := uuid.Parse(c.String("season"))
					if err != nil {
						return fmt.Errorf("invalid season id: %w", err)
					}
					data, err := os.ReadFile(c.String("file"))
					if err != nil {
						return fmt.Errorf("failed to read workbook: %w", err)
					}
					squads, err := rosterservice.ParseSquadWorkbook(data, seasonID)
					if err != nil {
						return err
					}

					cfg, obs, err := bootstrap(ctx, c.String("config"))
					if err != nil {
						return err
					}
					db := app.OpenDB(cfg.Postgres.DSN)
					defer db.Close()

					if err := rosterservice.NewImporter(rosterdb.NewRepository(db), obs.Logger, db).Import(ctx, squads); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Registered %d squads for season %s\n", len(squads), seasonID)
					return nil
				},
			},
		},
	}
}

func bootstrap(ctx context.Context, configPath string) (*config.Config, *observability.Observability, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  cfg.Observability.ServiceName,
		Environment:  cfg.Observability.Environment,
		Version:      cfg.Observability.Version,
		LogLevel:     cfg.Observability.LogLevel,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return cfg, obs, nil
}

type renderFunc func(divisiondomain.Result) ([]byte, error)

func renderer(format string) (renderFunc, error) {
	switch format {
	case "json":
		return func(r divisiondomain.Result) ([]byte, error) {
			return json.MarshalIndent(r, "", "  ")
		}, nil
	case "xlsx":
		return divisionservice.WriteWorkbook, nil
	case "png":
		return func(r divisiondomain.Result) ([]byte, error) {
			return divisionservice.RenderPointsChart(r.Teams, divisionservice.DefaultPalette)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
