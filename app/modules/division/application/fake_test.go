package divisionservice

import (
	"context"
	"sync"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	divisiondb "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// tracer is shared by the fakes so a test can assert call order across
// repositories.
type tracer struct {
	mu    sync.Mutex
	steps []string
}

func (t *tracer) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

func (t *tracer) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.steps))
	copy(out, t.steps)
	return out
}

// ------------------------
// Fake Fixture Repo
// ------------------------

type FakeFixtureRepo struct {
	*tracer

	ListBySeasonFunc func(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error)
}

func (f *FakeFixtureRepo) GetByID(context.Context, bun.IDB, uuid.UUID) (*fixturedomain.Fixture, error) {
	f.record("Fixtures.GetByID")
	return nil, fixturedb.ErrNotFound
}

func (f *FakeFixtureRepo) ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error) {
	f.record("Fixtures.ListBySeason")
	if f.ListBySeasonFunc != nil {
		return f.ListBySeasonFunc(ctx, db, divisionID, seasonID)
	}
	return nil, nil
}

func (f *FakeFixtureRepo) Create(context.Context, bun.IDB, *fixturedomain.Fixture) error {
	f.record("Fixtures.Create")
	return nil
}

func (f *FakeFixtureRepo) Update(context.Context, bun.IDB, *fixturedomain.Fixture, time.Time) error {
	f.record("Fixtures.Update")
	return nil
}

func (f *FakeFixtureRepo) SoftDelete(context.Context, bun.IDB, uuid.UUID, time.Time) error {
	f.record("Fixtures.SoftDelete")
	return nil
}

var _ fixturedb.Repository = (*FakeFixtureRepo)(nil)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	*tracer

	ListBySeasonFunc func(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]divisiondomain.Tournament, error)
}

func (f *FakeTournamentRepo) GetByID(context.Context, bun.IDB, uuid.UUID) (*divisiondomain.Tournament, error) {
	f.record("Tournaments.GetByID")
	return nil, divisiondb.ErrNotFound
}

func (f *FakeTournamentRepo) ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]divisiondomain.Tournament, error) {
	f.record("Tournaments.ListBySeason")
	if f.ListBySeasonFunc != nil {
		return f.ListBySeasonFunc(ctx, db, divisionID, seasonID)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) Upsert(context.Context, bun.IDB, *divisiondomain.Tournament) error {
	f.record("Tournaments.Upsert")
	return nil
}

var _ divisiondb.Repository = (*FakeTournamentRepo)(nil)

// ------------------------
// Fake Roster Repo
// ------------------------

type FakeRosterRepo struct {
	*tracer

	ListSeasonRostersFunc func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]rosterdomain.Roster, error)
	ListTeamIDsFunc       func(ctx context.Context, db bun.IDB) ([]uuid.UUID, error)
}

func (f *FakeRosterRepo) UpsertTeam(context.Context, bun.IDB, *rosterdb.Team) error {
	f.record("Rosters.UpsertTeam")
	return nil
}

func (f *FakeRosterRepo) UpsertPlayer(context.Context, bun.IDB, *rosterdb.Player) error {
	f.record("Rosters.UpsertPlayer")
	return nil
}

func (f *FakeRosterRepo) RegisterSquad(context.Context, bun.IDB, uuid.UUID, uuid.UUID, []uuid.UUID) error {
	f.record("Rosters.RegisterSquad")
	return nil
}

func (f *FakeRosterRepo) GetRoster(context.Context, bun.IDB, uuid.UUID, uuid.UUID) (rosterdomain.Roster, error) {
	f.record("Rosters.GetRoster")
	return rosterdomain.Roster{}, rosterdomain.ErrTeamNotFound
}

func (f *FakeRosterRepo) ListSeasonRosters(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]rosterdomain.Roster, error) {
	f.record("Rosters.ListSeasonRosters")
	if f.ListSeasonRostersFunc != nil {
		return f.ListSeasonRostersFunc(ctx, db, seasonID)
	}
	return nil, nil
}

func (f *FakeRosterRepo) ListTeamIDs(ctx context.Context, db bun.IDB) ([]uuid.UUID, error) {
	f.record("Rosters.ListTeamIDs")
	if f.ListTeamIDsFunc != nil {
		return f.ListTeamIDsFunc(ctx, db)
	}
	return nil, nil
}

var _ rosterdb.Repository = (*FakeRosterRepo)(nil)

type fakes struct {
	trace       *tracer
	fixtures    *FakeFixtureRepo
	tournaments *FakeTournamentRepo
	rosters     *FakeRosterRepo
}

func newFakes() fakes {
	t := &tracer{}
	return fakes{
		trace:       t,
		fixtures:    &FakeFixtureRepo{tracer: t},
		tournaments: &FakeTournamentRepo{tracer: t},
		rosters:     &FakeRosterRepo{tracer: t},
	}
}
