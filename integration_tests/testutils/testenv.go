package testutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/testcontainers/testcontainers-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Black-And-White-Club/dart-league/integration_tests/containers"
)

// Options selects the containers a test package needs.
type Options struct {
	// NATS also starts a JetStream enabled NATS server.
	NATS bool
}

// TestEnvironment holds all resources needed for integration testing.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   testcontainers.Container
	NatsContainer testcontainers.Container
	DB            *bun.DB
	NatsURL       string
	NatsConn      *nats.Conn
	JetStream     jetstream.JetStream
}

// NewTestEnvironment starts Postgres, migrates it, and optionally starts
// NATS. Any failure tears down what was already started.
func NewTestEnvironment(ctx context.Context, opts Options) (env *TestEnvironment, err error) {
	ctx, cancel := context.WithCancel(ctx)
	env = &TestEnvironment{Ctx: ctx, CancelContext: cancel}
	defer func() {
		if err != nil {
			env.Close()
		}
	}()

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgConnStr)))
	env.DB = bun.NewDB(sqldb, pgdialect.New())

	if err := RunMigrations(ctx, env.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if !opts.NATS {
		return env, nil
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	natsConn, err := nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.NatsConn = natsConn

	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	env.JetStream = js

	return env, nil
}

// Reset truncates every application table.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanAllTables(ctx, env.DB)
}

// Close releases connections and terminates the containers.
func (env *TestEnvironment) Close() {
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}

	// Terminate with a fresh context so a cancelled test context does not
	// leak containers.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var errs []error
	for _, c := range []testcontainers.Container{env.NatsContainer, env.PgContainer} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("Failed to terminate containers: %v", err)
	}

	if env.CancelContext != nil {
		env.CancelContext()
	}
}
