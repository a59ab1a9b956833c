package fixture

import (
	"context"
	"net/http"
	"sync"

	fixtureservice "github.com/Black-And-White-Club/dart-league/app/modules/fixture/application"
	fixturehandlers "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/handlers"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the fixture module.
type Module struct {
	FixtureService fixtureservice.Service
	Handlers       *fixturehandlers.FixtureHandlers
	cancelFunc     context.CancelFunc
	observability  *observability.Observability
}

// NewFixtureModule creates and initializes a new fixture module.
func NewFixtureModule(
	ctx context.Context,
	obs *observability.Observability,
	publisher message.Publisher,
	flags featureflags.Lookup,
	clk clock.Clock,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer("fixture")

	logger.InfoContext(ctx, "fixture.NewFixtureModule initializing")

	// 1. Initialize Repository
	repo := fixturedb.NewRepository(db)

	// 2. Initialize Service
	service := fixtureservice.NewFixtureService(repo, publisher, flags, clk, logger, obs.Metrics, tracer, db)

	// 3. Initialize HTTP Handlers
	handlers := fixturehandlers.NewFixtureHandlers(service, logger, tracer)

	return &Module{
		FixtureService: service,
		Handlers:       handlers,
		observability:  obs,
	}, nil
}

// Routes mounts the fixture API; writeMiddleware guards the edit endpoints.
func (m *Module) Routes(r chi.Router, writeMiddleware ...func(http.Handler) http.Handler) {
	m.Handlers.Routes(r, writeMiddleware...)
}

// Run starts the fixture module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting fixture module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Fixture module goroutine stopped")
}

// Close shuts down the fixture module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping fixture module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Fixture module stopped")
	return nil
}
