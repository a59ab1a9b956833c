package testutils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// PurgeStreams purges all messages from the given streams. Missing streams
// are skipped.
func (env *TestEnvironment) PurgeStreams(ctx context.Context, streamNames ...string) error {
	if env.JetStream == nil {
		return errors.New("JetStream not initialized")
	}
	for _, name := range streamNames {
		stream, err := env.JetStream.Stream(ctx, name)
		if err != nil {
			if errors.Is(err, jetstream.ErrStreamNotFound) {
				continue
			}
			log.Printf("Warning: failed to access stream %s: %v", name, err)
			continue
		}
		if err := stream.Purge(ctx); err != nil {
			log.Printf("Warning: failed to purge stream %s: %v", name, err)
		}
	}
	return nil
}

// WaitForStreamMessages polls until the stream holds at least want messages.
func (env *TestEnvironment) WaitForStreamMessages(ctx context.Context, streamName string, want uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var got uint64
	for time.Now().Before(deadline) {
		stream, err := env.JetStream.Stream(ctx, streamName)
		if err == nil {
			info, err := stream.Info(ctx)
			if err == nil {
				got = info.State.Msgs
				if got >= want {
					return nil
				}
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("stream %s holds %d messages after %v, want %d", streamName, got, timeout, want)
}
