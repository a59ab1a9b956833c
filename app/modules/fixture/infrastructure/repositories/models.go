package fixturedb

import (
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Fixture is the persisted form of a fixture. The scorecard, including both
// submissions, lives in Data; the remaining columns exist for lookups.
type Fixture struct {
	bun.BaseModel `bun:"table:fixtures,alias:f"`

	ID         uuid.UUID             `bun:"id,pk,type:uuid"`
	DivisionID uuid.UUID             `bun:"division_id,type:uuid,notnull"`
	SeasonID   uuid.UUID             `bun:"season_id,type:uuid,notnull"`
	HomeTeamID uuid.UUID             `bun:"home_team_id,type:uuid,notnull"`
	AwayTeamID uuid.UUID             `bun:"away_team_id,type:uuid,nullzero"`
	Date       time.Time             `bun:"date,notnull"`
	Knockout   bool                  `bun:"knockout,notnull,default:false"`
	Deleted    bool                  `bun:"deleted,notnull,default:false"`
	Data       fixturedomain.Fixture `bun:"data,type:jsonb,notnull"`
	Updated    time.Time             `bun:"updated,notnull"`
	Editor     string                `bun:"editor,nullzero"`
}

func toModel(f *fixturedomain.Fixture) *Fixture {
	return &Fixture{
		ID:         f.ID,
		DivisionID: f.DivisionID,
		SeasonID:   f.SeasonID,
		HomeTeamID: f.Home.TeamID,
		AwayTeamID: f.Away.TeamID,
		Date:       f.Date,
		Knockout:   f.IsKnockout,
		Deleted:    f.Deleted,
		Data:       *f,
		Updated:    f.Updated,
		Editor:     f.Editor,
	}
}

func (m *Fixture) toDomain() *fixturedomain.Fixture {
	f := m.Data
	f.ID = m.ID
	f.Deleted = m.Deleted
	f.Updated = m.Updated
	return &f
}
