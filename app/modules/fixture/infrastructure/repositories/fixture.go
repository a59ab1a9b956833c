package fixturedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new fixture repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID retrieves a fixture by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedomain.Fixture, error) {
	db = r.resolveDB(db)
	model := new(Fixture)
	err := db.NewSelect().
		Model(model).
		Where("f.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	return model.toDomain(), nil
}

// ListBySeason retrieves a division season's fixtures.
func (r *Impl) ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error) {
	db = r.resolveDB(db)
	var models []Fixture
	err := db.NewSelect().
		Model(&models).
		Where("f.division_id = ?", divisionID).
		Where("f.season_id = ?", seasonID).
		Where("f.deleted = false").
		Order("f.date ASC", "f.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	fixtures := make([]fixturedomain.Fixture, len(models))
	for i := range models {
		fixtures[i] = *models[i].toDomain()
	}
	return fixtures, nil
}

// Create inserts a fixture.
func (r *Impl) Create(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture) error {
	db = r.resolveDB(db)
	if fixture.ID == uuid.Nil {
		fixture.ID = uuid.New()
	}
	if fixture.Updated.IsZero() {
		fixture.Updated = time.Now().UTC().Truncate(time.Microsecond)
	}
	if _, err := db.NewInsert().Model(toModel(fixture)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	return nil
}

// Update replaces the stored fixture when its updated stamp still matches
// expectedUpdated. A fixture that exists but has moved on yields
// ErrConcurrentUpdate.
func (r *Impl) Update(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture, expectedUpdated time.Time) error {
	db = r.resolveDB(db)
	model := toModel(fixture)
	result, err := db.NewUpdate().
		Model(model).
		Column("division_id", "season_id", "home_team_id", "away_team_id", "date", "knockout", "deleted", "data", "updated", "editor").
		Where("f.id = ?", fixture.ID).
		Where("f.updated = ?", expectedUpdated).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update fixture: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	exists, err := db.NewSelect().Model((*Fixture)(nil)).Where("f.id = ?", fixture.ID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check fixture existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConcurrentUpdate
}

// SoftDelete marks a fixture deleted without removing its submissions.
func (r *Impl) SoftDelete(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Fixture)(nil)).
		Set("deleted = true").
		Set("updated = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete fixture: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
