package divisionrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/dart-league/app/eventbus"
	divisionhandlers "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/handlers"
	fixtureevents "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain/events"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// DivisionRouter handles Watermill handler registration for division events.
type DivisionRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	tracer     trace.Tracer
}

// NewDivisionRouter creates a new DivisionRouter.
func NewDivisionRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	tracer trace.Tracer,
) *DivisionRouter {
	return &DivisionRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		tracer:     tracer,
	}
}

// Configure sets up the router with handlers.
func (r *DivisionRouter) Configure(_ context.Context, handlers divisionhandlers.Handlers) error {
	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	logger     *slog.Logger
}

// registerHandlers wires fixture topics to handler methods.
func (r *DivisionRouter) registerHandlers(handlers divisionhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		logger:     r.logger,
	}

	topics := []string{
		fixtureevents.FixtureSubmittedV1,
		fixtureevents.FixtureMergedV1,
		fixtureevents.FixtureUnpublishedV1,
	}
	for _, topic := range topics {
		registerHandler(deps, topic, handlers.HandleFixtureChanged)
	}

	r.logger.Info("Division module handlers registered successfully", slog.Int("topics", len(topics)))
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) error,
) {
	handlerName := "division." + topic

	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		wrapTyped(handlerName, deps.logger, handler),
	)
}

// wrapTyped decodes the message payload into T and restores the correlation
// id before calling handler.
func wrapTyped[T any](name string, logger *slog.Logger, handler func(context.Context, *T) error) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := msg.Context()
		if id := msg.Metadata.Get(fixtureevents.CorrelationIDKey); id != "" {
			ctx = attr.WithCorrelationID(ctx, id)
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			// Undecodable payloads are acked.
			logger.ErrorContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", name),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return nil
		}

		if err := handler(ctx, payload); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// Close shuts down the router.
func (r *DivisionRouter) Close() error {
	return r.router.Close()
}
