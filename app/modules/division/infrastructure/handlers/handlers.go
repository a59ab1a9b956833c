package divisionhandlers

import (
	"context"
	"log/slog"

	fixtureevents "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain/events"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the interface for division event handlers.
type Handlers interface {
	// HandleFixtureChanged drops standings derived from the changed fixture.
	HandleFixtureChanged(ctx context.Context, payload *fixtureevents.FixtureChangedPayloadV1) error
}

// StandingsInvalidator drops cached standings of a division season.
type StandingsInvalidator interface {
	Invalidate(divisionID, seasonID uuid.UUID)
}

// DivisionHandlers implements the Handlers interface.
type DivisionHandlers struct {
	standings StandingsInvalidator
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewDivisionHandlers creates a new DivisionHandlers instance.
func NewDivisionHandlers(
	standings StandingsInvalidator,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &DivisionHandlers{
		standings: standings,
		logger:    logger,
		tracer:    tracer,
	}
}

// HandleFixtureChanged handles fixture submitted, merged and unpublished events.
func (h *DivisionHandlers) HandleFixtureChanged(ctx context.Context, payload *fixtureevents.FixtureChangedPayloadV1) error {
	ctx, span := h.tracer.Start(ctx, "DivisionHandlers.HandleFixtureChanged")
	defer span.End()

	h.standings.Invalidate(payload.DivisionID, payload.SeasonID)

	h.logger.InfoContext(ctx, "Standings invalidated by fixture change",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("fixture_id", payload.FixtureID),
		attr.UUID("division_id", payload.DivisionID),
		attr.String("action", payload.Action),
	)
	return nil
}
