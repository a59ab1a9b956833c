package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/dart-league/app/eventbus"
	"github.com/Black-And-White-Club/dart-league/app/modules/division"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	"github.com/Black-And-White-Club/dart-league/app/modules/fixture"
	fixtureevents "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain/events"
	"github.com/Black-And-White-Club/dart-league/app/shared/asof"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability"
	"github.com/Black-And-White-Club/dart-league/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wmmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the long-lived dependencies of the service.
type App struct {
	Config          *config.Config
	Observability   *observability.Observability
	DB              *bun.DB
	EventBus        eventbus.EventBus
	WatermillRouter *message.Router
	FixtureModule   *fixture.Module
	DivisionModule  *division.Module
	HTTPServer      *http.Server

	routerCancel context.CancelFunc
	wg           sync.WaitGroup
}

// NewApp creates an uninitialized App.
func NewApp(cfg *config.Config, obs *observability.Observability) *App {
	return &App{Config: cfg, Observability: obs}
}

// Initialize opens the database and event bus and builds the modules.
func (app *App) Initialize(ctx context.Context) error {
	cfg := app.Config
	logger := app.Observability.Logger

	app.DB = OpenDB(cfg.Postgres.DSN)
	if err := app.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.NATS.URL == "" {
		logger.InfoContext(ctx, "No NATS URL configured, using in-process event bus")
		app.EventBus = eventbus.NewInMemoryEventBus(logger)
	} else {
		bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger, fixtureevents.Streams()...)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		app.EventBus = bus
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	router.AddMiddleware(wmmiddleware.Recoverer)
	app.WatermillRouter = router

	loc, err := cfg.League.Location()
	if err != nil {
		return fmt.Errorf("invalid league timezone %q: %w", cfg.League.Timezone, err)
	}

	routerCtx, cancel := context.WithCancel(context.Background())
	app.routerCancel = cancel

	if err := app.initializeModules(ctx, routerCtx, asof.NewParser(loc)); err != nil {
		return err
	}

	app.HTTPServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return nil
}

func (app *App) initializeModules(ctx, routerCtx context.Context, parser *asof.Parser) error {
	cfg := app.Config
	flags := cfg.Features.Flags()
	clk := clock.RealClock{}

	fixtureModule, err := fixture.NewFixtureModule(ctx, app.Observability, app.EventBus, flags, clk, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize fixture module: %w", err)
	}
	app.FixtureModule = fixtureModule

	policy := divisiondomain.PointsPolicy{Win: cfg.Scoring.Win, Draw: cfg.Scoring.Draw, Loss: cfg.Scoring.Loss}
	divisionModule, err := division.NewDivisionModule(ctx, app.Observability, app.EventBus, app.WatermillRouter, flags, clk, policy, parser, routerCtx, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize division module: %w", err)
	}
	app.DivisionModule = divisionModule
	return nil
}

// Run starts the event router, the modules and the HTTP server, and blocks
// until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.WatermillRouter.Run(ctx)
	}()
	select {
	case <-app.WatermillRouter.Running():
	case err := <-routerErr:
		return fmt.Errorf("watermill router stopped: %w", err)
	}

	app.wg.Add(2)
	go app.FixtureModule.Run(ctx, &app.wg)
	go app.DivisionModule.Run(ctx, &app.wg)

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", "address", app.HTTPServer.Addr)
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	}
}

// Close stops the HTTP server, the modules and the event plumbing, then the
// database.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	if app.HTTPServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
		if err := app.HTTPServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		cancel()
	}

	if app.FixtureModule != nil {
		if err := app.FixtureModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.DivisionModule != nil {
		if err := app.DivisionModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.wg.Wait()

	if app.routerCancel != nil {
		app.routerCancel()
	}
	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("watermill router: %w", err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Application shut down with errors", "error", err)
		return err
	}
	logger.Info("Application shut down gracefully")
	return nil
}

// OpenDB opens a bun handle on a Postgres DSN. The connection is lazy.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}
