package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// eventBus implements EventBus over a Watermill publisher and subscriber.
type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
}

// NewInMemoryEventBus returns an EventBus that delivers events within the
// process. Every subscriber of a topic receives every message.
func NewInMemoryEventBus(logger *slog.Logger) EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))

	return &eventBus{
		publisher:  pubSub,
		subscriber: pubSub,
		logger:     logger,
	}
}

// NewEventBus creates and returns an EventBus backed by NATS. Events are
// published on core NATS subjects and captured by the JetStream streams
// described in streams.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger, streams ...jetstream.StreamConfig) (EventBus, error) {
	// Connect to NATS
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to initialize JetStream", slog.Any("error", err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	if err := InitializeStreams(ctx, js, logger, streams...); err != nil {
		natsConn.Close()
		return nil, err
	}

	// Create a Watermill logger that wraps slog
	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         natsURL,
			Marshaler:   marshaler,
			NatsOptions: []nc.Option{nc.RetryOnFailedConnect(true)},
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaler,
			NatsOptions: []nc.Option{nc.RetryOnFailedConnect(true)},
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		logger.Error("Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:  publisher,
		subscriber: subscriber,
		natsConn:   natsConn,
		logger:     logger,
	}, nil
}

// Publish publishes messages on topic, assigning UUIDs where missing.
func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
		)
	}

	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe subscribes to topic until ctx is done.
func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.Info("Subscribing to topic", slog.String("topic", topic))

	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return messages, nil
}

// Close closes all NATS and Watermill resources.
func (eb *eventBus) Close() error {
	var errs []error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			eb.logger.Error("Error closing publisher", "error", err)
			errs = append(errs, err)
		}
	}
	// gochannel uses one value for both sides
	if eb.subscriber != nil && any(eb.subscriber) != any(eb.publisher) {
		if err := eb.subscriber.Close(); err != nil {
			eb.logger.Error("Error closing subscriber", "error", err)
			errs = append(errs, err)
		}
	}

	// Close the NATS connection
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}

	return errors.Join(errs...)
}

// InitializeStreams creates the JetStream streams that capture published
// events, adding missing subjects to streams that already exist.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger, configs ...jetstream.StreamConfig) error {
	for _, cfg := range configs {
		stream, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				logger.Error("Failed to create JetStream stream", slog.String("stream", cfg.Name), slog.Any("error", err))
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", slog.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}

		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		updated := info.Config
		for _, subject := range cfg.Subjects {
			if !slices.Contains(updated.Subjects, subject) {
				updated.Subjects = append(updated.Subjects, subject)
			}
		}
		if len(updated.Subjects) == len(info.Config.Subjects) {
			continue
		}
		if _, err := js.UpdateStream(ctx, updated); err != nil {
			return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
		}
		logger.Info("Stream updated with new subjects", slog.String("stream", cfg.Name))
	}
	return nil
}
