package divisiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound indicates the requested tournament does not exist.
var ErrNotFound = errors.New("tournament not found")

// Tournament is the persisted form of a tournament; its rounds live in Data.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID         uuid.UUID                 `bun:"id,pk,type:uuid"`
	DivisionID uuid.UUID                 `bun:"division_id,type:uuid,notnull"`
	SeasonID   uuid.UUID                 `bun:"season_id,type:uuid,notnull"`
	Name       string                    `bun:"name,notnull"`
	Date       time.Time                 `bun:"date,notnull"`
	Deleted    bool                      `bun:"deleted,notnull,default:false"`
	Data       divisiondomain.Tournament `bun:"data,type:jsonb,notnull"`
	UpdatedAt  time.Time                 `bun:"updated_at,notnull,default:current_timestamp"`
}

// Repository defines the contract for tournament persistence.
type Repository interface {
	// GetByID retrieves a tournament.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*divisiondomain.Tournament, error)

	// ListBySeason retrieves the non-deleted tournaments of a division season.
	ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]divisiondomain.Tournament, error)

	// Upsert creates or replaces a tournament.
	Upsert(ctx context.Context, db bun.IDB, tournament *divisiondomain.Tournament) error
}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (m *Tournament) toDomain() divisiondomain.Tournament {
	t := m.Data
	t.ID = m.ID
	t.DivisionID = m.DivisionID
	t.SeasonID = m.SeasonID
	t.Deleted = m.Deleted
	return t
}

// GetByID retrieves a tournament by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*divisiondomain.Tournament, error) {
	db = r.resolveDB(db)
	model := new(Tournament)
	if err := db.NewSelect().Model(model).Where("t.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	t := model.toDomain()
	return &t, nil
}

// ListBySeason retrieves a division season's tournaments ordered by date.
func (r *Impl) ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]divisiondomain.Tournament, error) {
	db = r.resolveDB(db)
	var models []Tournament
	err := db.NewSelect().
		Model(&models).
		Where("t.division_id = ?", divisionID).
		Where("t.season_id = ?", seasonID).
		Where("t.deleted = false").
		Order("t.date ASC", "t.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	out := make([]divisiondomain.Tournament, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out, nil
}

// Upsert creates or replaces a tournament.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, tournament *divisiondomain.Tournament) error {
	db = r.resolveDB(db)
	if tournament.ID == uuid.Nil {
		tournament.ID = uuid.New()
	}
	model := &Tournament{
		ID:         tournament.ID,
		DivisionID: tournament.DivisionID,
		SeasonID:   tournament.SeasonID,
		Name:       tournament.Name,
		Date:       tournament.Date,
		Deleted:    tournament.Deleted,
		Data:       *tournament,
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("date = EXCLUDED.date").
		Set("deleted = EXCLUDED.deleted").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert tournament: %w", err)
	}
	return nil
}
