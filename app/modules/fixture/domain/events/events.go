package fixtureevents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// Stream names
const (
	FixtureStreamName = "fixture"
)

// Fixture-related events
const (
	FixtureSubmittedV1   = "fixture.submitted.v1"
	FixtureMergedV1      = "fixture.merged.v1"
	FixtureUnpublishedV1 = "fixture.unpublished.v1"
)

// CorrelationIDKey is the metadata key carrying the request correlation id.
const CorrelationIDKey = "correlation_id"

// Streams returns the JetStream streams capturing fixture events.
func Streams() []jetstream.StreamConfig {
	return []jetstream.StreamConfig{{
		Name:     FixtureStreamName,
		Subjects: []string{"fixture.>"},
	}}
}

// FixtureChangedPayloadV1 describes a change to a fixture's canonical result
// or submissions.
type FixtureChangedPayloadV1 struct {
	FixtureID  uuid.UUID `json:"fixture_id"`
	DivisionID uuid.UUID `json:"division_id"`
	SeasonID   uuid.UUID `json:"season_id"`
	Action     string    `json:"action"`
	Side       string    `json:"side,omitempty"`
	Slot       *int      `json:"slot,omitempty"`
	Editor     string    `json:"editor,omitempty"`
	Updated    time.Time `json:"updated"`
}

// NewMessage marshals payload into a Watermill message carrying the
// correlation id from ctx.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(CorrelationIDKey, id)
	}
	return msg, nil
}

// DecodeFixtureChanged unmarshals a fixture event payload.
func DecodeFixtureChanged(msg *message.Message) (FixtureChangedPayloadV1, error) {
	var payload FixtureChangedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode fixture event %s: %w", msg.UUID, err)
	}
	return payload, nil
}
