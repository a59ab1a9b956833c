package division

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/dart-league/app/eventbus"
	divisionservice "github.com/Black-And-White-Club/dart-league/app/modules/division/application"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	divisionhandlers "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/handlers"
	divisiondb "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories"
	divisionrouter "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/router"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/asof"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the division module.
type Module struct {
	DivisionService divisionservice.Service
	DivisionRouter  *divisionrouter.DivisionRouter
	Handlers        *divisionhandlers.StandingsHandlers
	cancelFunc      context.CancelFunc
	observability   *observability.Observability
}

// NewDivisionModule creates and initializes a new division module. A nil
// router skips event subscriptions, leaving the cache to be invalidated by
// hand.
func NewDivisionModule(
	ctx context.Context,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	flags featureflags.Lookup,
	clk clock.Clock,
	policy divisiondomain.PointsPolicy,
	parser *asof.Parser,
	routerCtx context.Context,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer("division")

	logger.InfoContext(ctx, "division.NewDivisionModule initializing")

	// 1. Initialize Repositories
	fixtures := fixturedb.NewRepository(db)
	tournaments := divisiondb.NewRepository(db)
	rosters := rosterdb.NewRepository(db)

	// 2. Initialize Service
	service := divisionservice.NewDivisionService(fixtures, tournaments, rosters, flags, clk, policy, logger, obs.Metrics, tracer, db)

	module := &Module{
		DivisionService: service,
		Handlers:        divisionhandlers.NewStandingsHandlers(service, parser, clk, logger, tracer),
		observability:   obs,
	}

	// 3. Subscribe to fixture changes
	if router != nil {
		divisionRouter := divisionrouter.NewDivisionRouter(logger, router, eventBus, tracer)
		if err := divisionRouter.Configure(routerCtx, divisionhandlers.NewDivisionHandlers(service, logger, tracer)); err != nil {
			return nil, fmt.Errorf("failed to configure division router: %w", err)
		}
		module.DivisionRouter = divisionRouter
	}

	return module, nil
}

// Routes mounts the standings API.
func (m *Module) Routes(r chi.Router) {
	m.Handlers.Routes(r)
}

// Run starts the division module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting division module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Division module goroutine stopped")
}

// Close shuts down the division module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping division module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.DivisionRouter != nil {
		if err := m.DivisionRouter.Close(); err != nil {
			logger.Error("Error closing DivisionRouter from module", "error", err)
			return fmt.Errorf("error closing DivisionRouter: %w", err)
		}
	}

	logger.Info("Division module stopped")
	return nil
}
