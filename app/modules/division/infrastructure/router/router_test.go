package divisionrouter

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/dart-league/app/eventbus"
	fixtureevents "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain/events"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingHandlers struct {
	mu           sync.Mutex
	payloads     []fixtureevents.FixtureChangedPayloadV1
	correlations []string
}

func (h *recordingHandlers) HandleFixtureChanged(ctx context.Context, payload *fixtureevents.FixtureChangedPayloadV1) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payloads = append(h.payloads, *payload)
	h.correlations = append(h.correlations, attr.CorrelationID(ctx))
	return nil
}

func (h *recordingHandlers) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.payloads)
}

func TestDivisionRouterDeliversFixtureEvents(t *testing.T) {
	logger := slog.Default()
	bus := eventbus.NewInMemoryEventBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	handlers := &recordingHandlers{}
	r := NewDivisionRouter(logger, router, bus, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, r.Configure(context.Background(), handlers))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	payload := fixtureevents.FixtureChangedPayloadV1{
		FixtureID:  uuid.New(),
		DivisionID: uuid.New(),
		SeasonID:   uuid.New(),
		Action:     "Unpublish",
	}
	msg, err := fixtureevents.NewMessage(attr.WithCorrelationID(context.Background(), "corr-1"), payload)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(fixtureevents.FixtureUnpublishedV1, msg))

	bad := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	require.NoError(t, bus.Publish(fixtureevents.FixtureMergedV1, bad))

	assert.Eventually(t, func() bool { return handlers.received() == 1 }, 5*time.Second, 10*time.Millisecond)

	handlers.mu.Lock()
	defer handlers.mu.Unlock()
	assert.Equal(t, payload.DivisionID, handlers.payloads[0].DivisionID)
	assert.Equal(t, "corr-1", handlers.correlations[0])
	require.NoError(t, r.Close())
}
