package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/uptrace/bun/driver/pgdriver"
)

const postgresImage = "postgres:16-alpine"

// leagueDB holds the throwaway credentials of the test database.
var leagueDB = struct {
	name, user, password string
}{name: "league", user: "league", password: "league"}

// dsn builds a pgdriver DSN for the test database behind host:port.
func dsn(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		leagueDB.user, leagueDB.password, host, port.Port(), leagueDB.name)
}

// SetupPostgresContainer starts Postgres and waits until the league database
// accepts queries through pgdriver. The returned DSN disables TLS. The caller
// terminates the container.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pg, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(leagueDB.name),
		postgres.WithUsername(leagueDB.user),
		postgres.WithPassword(leagueDB.password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pg", dsn).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		terminate(ctx, pg)
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate(ctx, pg)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	log.Printf("Postgres container ready (%s)", postgresImage)
	return pg, connStr, nil
}

func terminate(ctx context.Context, pg *postgres.PostgresContainer) {
	if pg == nil {
		return
	}
	if err := pg.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate postgres container: %v", err)
	}
}
