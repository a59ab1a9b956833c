package fixtureservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	fixtureevents "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain/events"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/dart-league/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "FixtureService"

// EditRequest identifies the fixture revision an edit was made against.
type EditRequest struct {
	FixtureID uuid.UUID
	// ExpectedUpdated must equal the stored fixture's Updated stamp.
	ExpectedUpdated time.Time
	Editor          string
}

// MergeView is everything a reviewer needs to reconcile two scorecards.
type MergeView struct {
	Fixture       fixturedomain.Fixture                `json:"fixture"`
	Slots         []fixturedomain.SlotMergeState       `json:"slots"`
	ManOfMatch    []fixturedomain.ManOfMatchProposal   `json:"manOfTheMatch"`
	Accolades     []fixturedomain.AccoladeListProposal `json:"accolades"`
	Published     bool                                 `json:"published"`
	ScoresVisible bool                                 `json:"scoresVisible"`
	Outcome       fixturedomain.Outcome                `json:"outcome"`
}

// FixtureService loads fixtures, applies merge operations and stores the
// result under optimistic concurrency.
type FixtureService struct {
	repo      fixturedb.Repository
	publisher message.Publisher
	flags     featureflags.Lookup
	clock     clock.Clock
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewFixtureService creates a new FixtureService. A nil publisher disables
// event publication.
func NewFixtureService(
	repo fixturedb.Repository,
	publisher message.Publisher,
	flags featureflags.Lookup,
	clk clock.Clock,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *FixtureService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if flags == nil {
		flags = featureflags.Static{}
	}
	return &FixtureService{
		repo:      repo,
		publisher: publisher,
		flags:     flags,
		clock:     clk,
		logger:    logger,
		metrics:   m,
		tracer:    tracer,
		db:        db,
	}
}

// GetFixture retrieves a non-deleted fixture.
func (s *FixtureService) GetFixture(ctx context.Context, id uuid.UUID) (*fixturedomain.Fixture, error) {
	result, err := withTelemetry(s, ctx, "GetFixture", id.String(), func(ctx context.Context) (results.OperationResult[*fixturedomain.Fixture, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*fixturedomain.Fixture, error], error) {
			return s.load(ctx, db, id)
		})
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// MergeView derives the per-slot, man-of-the-match and accolade merge states
// of a fixture.
func (s *FixtureService) MergeView(ctx context.Context, id uuid.UUID) (*MergeView, error) {
	result, err := withTelemetry(s, ctx, "MergeView", id.String(), func(ctx context.Context) (results.OperationResult[*MergeView, error], error) {
		loaded, err := s.load(ctx, nil, id)
		if err != nil || loaded.IsFailure() {
			return results.OperationResult[*MergeView, error]{Failure: loaded.Failure}, err
		}
		f := **loaded.Success

		visible, err := s.scoresVisible(ctx, f)
		if err != nil {
			return results.OperationResult[*MergeView, error]{}, err
		}

		return results.SuccessResult[*MergeView, error](&MergeView{
			Fixture: f,
			Slots:   fixturedomain.SlotStates(f),
			ManOfMatch: []fixturedomain.ManOfMatchProposal{
				fixturedomain.ManOfMatchState(f, fixturedomain.SideHome),
				fixturedomain.ManOfMatchState(f, fixturedomain.SideAway),
			},
			Accolades: []fixturedomain.AccoladeListProposal{
				fixturedomain.AccoladeListState(f, fixturedomain.OneEighties),
				fixturedomain.AccoladeListState(f, fixturedomain.HiChecks),
			},
			Published:     fixturedomain.IsPublished(f),
			ScoresVisible: visible,
			Outcome:       fixturedomain.FixtureOutcome(f),
		}), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ScoresVisible reports whether a fixture's scores may be shown yet.
func (s *FixtureService) ScoresVisible(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := withTelemetry(s, ctx, "ScoresVisible", id.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		loaded, err := s.load(ctx, nil, id)
		if err != nil || loaded.IsFailure() {
			return results.OperationResult[bool, error]{Failure: loaded.Failure}, err
		}
		visible, err := s.scoresVisible(ctx, **loaded.Success)
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](visible), nil
	})
	if err != nil {
		return false, err
	}
	if result.IsFailure() {
		return false, *result.Failure
	}
	return *result.Success, nil
}

// SubmitScorecard stores side's scorecard snapshot on the fixture.
func (s *FixtureService) SubmitScorecard(ctx context.Context, req EditRequest, side fixturedomain.Side, scorecard fixturedomain.Fixture) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "SubmitScorecard", req, fixtureevents.FixtureSubmittedV1, side, nil,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			if !side.Valid() {
				return fixturedomain.Fixture{}, fmt.Errorf("%w: %q", fixturedomain.ErrInvalidSide, side)
			}
			scorecard.MatchOptions = f.MatchOptions
			if err := fixturedomain.ValidateScorecard(scorecard); err != nil {
				return fixturedomain.Fixture{}, err
			}
			return f.WithSubmission(side, scorecard), nil
		})
}

// MergeSlot accepts side's submitted result for one slot.
func (s *FixtureService) MergeSlot(ctx context.Context, req EditRequest, index int, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "MergeSlot", req, fixtureevents.FixtureMergedV1, side, &index,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			return fixturedomain.AcceptSubmission(f, index, side)
		})
}

// AcceptAll accepts every populated, unpublished slot from side's submission.
func (s *FixtureService) AcceptAll(ctx context.Context, req EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "AcceptAll", req, fixtureevents.FixtureMergedV1, side, nil,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			return fixturedomain.AcceptAll(f, side)
		})
}

// MergeAccoladeList replaces the fixture's accolade list with side's list.
func (s *FixtureService) MergeAccoladeList(ctx context.Context, req EditRequest, category fixturedomain.AccoladeCategory, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "MergeAccoladeList", req, fixtureevents.FixtureMergedV1, side, nil,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			return fixturedomain.MergeSideAccoladeList(f, category, side)
		})
}

// MergeManOfMatch accepts side's own man-of-the-match nomination.
func (s *FixtureService) MergeManOfMatch(ctx context.Context, req EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "MergeManOfMatch", req, fixtureevents.FixtureMergedV1, side, nil,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			return fixturedomain.MergeManOfMatch(f, side, f.Submission(side))
		})
}

// Unpublish clears the merged result so it can be reconciled again.
func (s *FixtureService) Unpublish(ctx context.Context, req EditRequest) (*fixturedomain.Fixture, error) {
	return s.edit(ctx, "Unpublish", req, fixtureevents.FixtureUnpublishedV1, "", nil,
		func(f fixturedomain.Fixture) (fixturedomain.Fixture, error) {
			return fixturedomain.Unpublish(f), nil
		})
}

// edit runs load, apply, store and publish for a fixture mutation.
func (s *FixtureService) edit(
	ctx context.Context,
	operationName string,
	req EditRequest,
	topic string,
	side fixturedomain.Side,
	slot *int,
	apply func(fixturedomain.Fixture) (fixturedomain.Fixture, error),
) (*fixturedomain.Fixture, error) {
	editTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*fixturedomain.Fixture, error], error) {
		return s.editLogic(ctx, db, req, apply)
	}

	result, err := withTelemetry(s, ctx, operationName, req.FixtureID.String(), func(ctx context.Context) (results.OperationResult[*fixturedomain.Fixture, error], error) {
		return runInTx(s, ctx, editTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	saved := *result.Success
	s.publish(ctx, topic, fixtureevents.FixtureChangedPayloadV1{
		FixtureID:  saved.ID,
		DivisionID: saved.DivisionID,
		SeasonID:   saved.SeasonID,
		Action:     operationName,
		Side:       string(side),
		Slot:       slot,
		Editor:     req.Editor,
		Updated:    saved.Updated,
	})
	return saved, nil
}

// editLogic contains the core logic.
func (s *FixtureService) editLogic(
	ctx context.Context,
	db bun.IDB,
	req EditRequest,
	apply func(fixturedomain.Fixture) (fixturedomain.Fixture, error),
) (results.OperationResult[*fixturedomain.Fixture, error], error) {
	loaded, err := s.load(ctx, db, req.FixtureID)
	if err != nil || loaded.IsFailure() {
		return loaded, err
	}
	current := **loaded.Success

	if !current.Updated.Equal(req.ExpectedUpdated) {
		return results.FailureResult[*fixturedomain.Fixture, error](fixturedb.ErrConcurrentUpdate), nil
	}

	next, err := apply(current)
	if err != nil {
		return results.FailureResult[*fixturedomain.Fixture, error](err), nil
	}

	next = next.WithUpdated(s.nextStamp(current.Updated), req.Editor)
	if err := s.repo.Update(ctx, db, &next, current.Updated); err != nil {
		if errors.Is(err, fixturedb.ErrConcurrentUpdate) || errors.Is(err, fixturedb.ErrNotFound) {
			return results.FailureResult[*fixturedomain.Fixture, error](err), nil
		}
		return results.OperationResult[*fixturedomain.Fixture, error]{}, fmt.Errorf("failed to save fixture: %w", err)
	}
	return results.SuccessResult[*fixturedomain.Fixture, error](&next), nil
}

// load fetches a fixture, reporting missing and deleted fixtures as failures.
func (s *FixtureService) load(ctx context.Context, db bun.IDB, id uuid.UUID) (results.OperationResult[*fixturedomain.Fixture, error], error) {
	f, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, fixturedb.ErrNotFound) {
			return results.FailureResult[*fixturedomain.Fixture, error](err), nil
		}
		return results.OperationResult[*fixturedomain.Fixture, error]{}, fmt.Errorf("failed to get fixture: %w", err)
	}
	if f.Deleted {
		return results.FailureResult[*fixturedomain.Fixture, error](fixturedb.ErrNotFound), nil
	}
	return results.SuccessResult[*fixturedomain.Fixture, error](f), nil
}

func (s *FixtureService) scoresVisible(ctx context.Context, f fixturedomain.Fixture) (bool, error) {
	delay, err := s.flags.Delay(ctx, featureflags.ScoreVisibilityDelay)
	if err != nil {
		return false, fmt.Errorf("failed to resolve visibility delay: %w", err)
	}
	return fixturedomain.ScoresVisible(f, delay, s.clock), nil
}

// nextStamp returns a stamp strictly after previous at the precision
// Postgres stores.
func (s *FixtureService) nextStamp(previous time.Time) time.Time {
	now := s.clock.NowUTC().Truncate(time.Microsecond)
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}

// publish emits a fixture event. The edit is already committed, so a failed
// publish is logged and not returned.
func (s *FixtureService) publish(ctx context.Context, topic string, payload fixtureevents.FixtureChangedPayloadV1) {
	if s.publisher == nil {
		return
	}
	msg, err := fixtureevents.NewMessage(ctx, payload)
	if err == nil {
		err = s.publisher.Publish(topic, msg)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish fixture event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.UUID("fixture_id", payload.FixtureID),
			attr.Error(err),
		)
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *FixtureService,
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

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *FixtureService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
