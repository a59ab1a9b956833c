package fixturedb

import (
	"context"
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for fixture persistence.
type Repository interface {
	// GetByID retrieves a fixture, including deleted ones.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedomain.Fixture, error)

	// ListBySeason retrieves the non-deleted fixtures of a division season
	// ordered by date.
	ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error)

	// Create inserts a new fixture.
	Create(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture) error

	// Update replaces a fixture if it still carries expectedUpdated.
	Update(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture, expectedUpdated time.Time) error

	// SoftDelete marks a fixture deleted.
	SoftDelete(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error
}
