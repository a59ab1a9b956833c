package divisionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	divisiondb "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/dart-league/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "DivisionService"

// SeasonKey identifies one division season.
type SeasonKey struct {
	DivisionID uuid.UUID
	SeasonID   uuid.UUID
}

func (k SeasonKey) String() string { return k.DivisionID.String() + "/" + k.SeasonID.String() }

// DivisionService derives division standings from stored fixtures,
// tournaments and rosters. Results are cached per season until invalidated
// or until a stored fixture's score becomes visible, whichever comes first.
type DivisionService struct {
	fixtures    fixturedb.Repository
	tournaments divisiondb.Repository
	rosters     rosterdb.Repository
	flags       featureflags.Lookup
	clock       clock.Clock
	policy      divisiondomain.PointsPolicy
	logger      *slog.Logger
	metrics     metrics.OperationMetrics
	tracer      trace.Tracer
	db          *bun.DB

	mu    sync.RWMutex
	cache map[SeasonKey]cachedStandings
	gens  map[SeasonKey]uint64
}

// cachedStandings is a computed result and the instant it goes stale. A zero
// expires means no stored fixture is waiting on the visibility delay.
type cachedStandings struct {
	result  divisiondomain.Result
	expires time.Time
}

func (c cachedStandings) freshAt(now time.Time) bool {
	return c.expires.IsZero() || now.Before(c.expires)
}

// computedStandings carries a result out of the transaction together with
// the next instant a hidden fixture will be revealed.
type computedStandings struct {
	result      divisiondomain.Result
	nextVisible time.Time
}

// NewDivisionService creates a new DivisionService.
func NewDivisionService(
	fixtures fixturedb.Repository,
	tournaments divisiondb.Repository,
	rosters rosterdb.Repository,
	flags featureflags.Lookup,
	clk clock.Clock,
	policy divisiondomain.PointsPolicy,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *DivisionService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if flags == nil {
		flags = featureflags.Static{}
	}
	return &DivisionService{
		fixtures:    fixtures,
		tournaments: tournaments,
		rosters:     rosters,
		flags:       flags,
		clock:       clk,
		policy:      policy,
		logger:      logger,
		metrics:     m,
		tracer:      tracer,
		db:          db,
		cache:       make(map[SeasonKey]cachedStandings),
		gens:        make(map[SeasonKey]uint64),
	}
}

// Standings returns the ranked teams and players of a division season.
func (s *DivisionService) Standings(ctx context.Context, divisionID, seasonID uuid.UUID) (*divisiondomain.Result, error) {
	key := SeasonKey{DivisionID: divisionID, SeasonID: seasonID}

	s.mu.RLock()
	cached, ok := s.cache[key]
	gen := s.gens[key]
	s.mu.RUnlock()
	if ok && cached.freshAt(s.clock.NowUTC()) {
		return &cached.result, nil
	}

	computed, err := s.standings(ctx, "Standings", key, s.clock)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// An Invalidate that landed while we were loading means the result may
	// predate the change it announced.
	if s.gens[key] == gen {
		s.cache[key] = cachedStandings{result: computed.result, expires: computed.nextVisible}
	}
	s.mu.Unlock()
	return &computed.result, nil
}

// StandingsAsOf computes standings as they would have been visible at asOf.
// The result bypasses the cache.
func (s *DivisionService) StandingsAsOf(ctx context.Context, divisionID, seasonID uuid.UUID, asOf time.Time) (*divisiondomain.Result, error) {
	computed, err := s.standings(ctx, "StandingsAsOf", SeasonKey{DivisionID: divisionID, SeasonID: seasonID}, clock.NewAnchorClock(asOf))
	if err != nil {
		return nil, err
	}
	return &computed.result, nil
}

// Invalidate drops the cached standings of a division season. A load already
// in flight for the season will not store its result.
func (s *DivisionService) Invalidate(divisionID, seasonID uuid.UUID) {
	key := SeasonKey{DivisionID: divisionID, SeasonID: seasonID}
	s.mu.Lock()
	delete(s.cache, key)
	s.gens[key]++
	s.mu.Unlock()
	s.logger.Debug("Standings cache invalidated", attr.String("season", key.String()))
}

func (s *DivisionService) standings(ctx context.Context, operationName string, key SeasonKey, clk clock.Clock) (*computedStandings, error) {
	standingsTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*computedStandings, error], error) {
		return s.standingsLogic(ctx, db, key, clk)
	}

	result, err := withTelemetry(s, ctx, operationName, key.String(), func(ctx context.Context) (results.OperationResult[*computedStandings, error], error) {
		return runInTx(s, ctx, standingsTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// standingsLogic contains the core logic.
func (s *DivisionService) standingsLogic(ctx context.Context, db bun.IDB, key SeasonKey, clk clock.Clock) (results.OperationResult[*computedStandings, error], error) {
	fixtures, err := s.fixtures.ListBySeason(ctx, db, key.DivisionID, key.SeasonID)
	if err != nil {
		return results.OperationResult[*computedStandings, error]{}, fmt.Errorf("failed to load fixtures: %w", err)
	}
	tournaments, err := s.tournaments.ListBySeason(ctx, db, key.DivisionID, key.SeasonID)
	if err != nil {
		return results.OperationResult[*computedStandings, error]{}, fmt.Errorf("failed to load tournaments: %w", err)
	}
	rosters, err := s.rosters.ListSeasonRosters(ctx, db, key.SeasonID)
	if err != nil {
		return results.OperationResult[*computedStandings, error]{}, fmt.Errorf("failed to load rosters: %w", err)
	}
	teamIDs, err := s.rosters.ListTeamIDs(ctx, db)
	if err != nil {
		return results.OperationResult[*computedStandings, error]{}, fmt.Errorf("failed to load teams: %w", err)
	}

	delay, err := s.flags.Delay(ctx, featureflags.ScoreVisibilityDelay)
	if err != nil {
		return results.OperationResult[*computedStandings, error]{}, fmt.Errorf("failed to resolve visibility delay: %w", err)
	}
	now := clk.NowUTC()
	var nextVisible time.Time
	visible := divisiondomain.FilterVisible(fixtures, func(f fixturedomain.Fixture) bool {
		at, ok := fixturedomain.VisibleFrom(f, delay)
		if !ok {
			return false
		}
		if at.After(now) {
			if nextVisible.IsZero() || at.Before(nextVisible) {
				nextVisible = at
			}
			return false
		}
		return true
	})

	s.logger.DebugContext(ctx, "Aggregating division",
		attr.ExtractCorrelationID(ctx),
		attr.String("season", key.String()),
		attr.Int("fixtures", len(fixtures)),
		attr.Int("visible_fixtures", len(visible)),
		attr.Int("tournaments", len(tournaments)),
	)

	lookup := rosterdomain.NewStaticRoster(rosters, teamIDs...)
	computed := &computedStandings{
		result:      divisiondomain.AggregateDivision(visible, tournaments, lookup, s.policy),
		nextVisible: nextVisible,
	}
	return results.SuccessResult[*computedStandings, error](computed), nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *DivisionService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx runs the operation in a read-only transaction so every list
// query sees the same snapshot.
func runInTx[S any, F any](
	s *DivisionService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
