package divisionservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/dart-league/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var endOfSeason = time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)

func seed(f fakes, data testutils.DivisionData) {
	f.fixtures.ListBySeasonFunc = func(context.Context, bun.IDB, uuid.UUID, uuid.UUID) ([]fixturedomain.Fixture, error) {
		return data.Fixtures, nil
	}
	f.tournaments.ListBySeasonFunc = func(context.Context, bun.IDB, uuid.UUID, uuid.UUID) ([]divisiondomain.Tournament, error) {
		return data.Tournaments, nil
	}
	f.rosters.ListSeasonRostersFunc = func(context.Context, bun.IDB, uuid.UUID) ([]rosterdomain.Roster, error) {
		return data.Rosters, nil
	}
}

func newTestService(f fakes, flags featureflags.Lookup, at time.Time) *DivisionService {
	return NewDivisionService(
		f.fixtures,
		f.tournaments,
		f.rosters,
		flags,
		clock.NewAnchorClock(at),
		divisiondomain.DefaultPointsPolicy,
		slog.Default(),
		metrics.NewNoop(),
		nil,
		nil,
	)
}

var loadSteps = []string{
	"Fixtures.ListBySeason",
	"Tournaments.ListBySeason",
	"Rosters.ListSeasonRosters",
	"Rosters.ListTeamIDs",
}

func TestStandingsCachesUntilInvalidated(t *testing.T) {
	gen := testutils.NewTestDataGenerator(42)
	data := gen.GenerateDivision(4)
	f := newFakes()
	seed(f, data)
	svc := newTestService(f, nil, endOfSeason)
	ctx := context.Background()

	first, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	require.Len(t, first.Teams, 4)
	for i, team := range first.Teams {
		assert.Equal(t, i+1, team.Rank)
		assert.Equal(t, 6, team.FixturesPlayed, "seed %d", gen.Seed())
		assert.Equal(t, divisiondomain.DefaultPointsPolicy.Points(team.FixturesWon, team.FixturesDrawn, team.FixturesLost), team.Points)
	}

	second, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, loadSteps, f.trace.Trace())

	svc.Invalidate(data.DivisionID, data.SeasonID)
	_, err = svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))
}

// steppingClock is a clock the test moves forward by hand.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) NowUTC() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func totalPlayed(r *divisiondomain.Result) int {
	n := 0
	for _, team := range r.Teams {
		n += team.FixturesPlayed
	}
	return n
}

func TestStandingsCacheExpiresWhenDelayElapses(t *testing.T) {
	data := testutils.NewTestDataGenerator(42).GenerateDivision(4)
	data.Tournaments = nil
	f := newFakes()
	seed(f, data)

	last := data.Fixtures[len(data.Fixtures)-1].Date
	clk := &steppingClock{now: last.Add(time.Hour)}
	flags := featureflags.Static{featureflags.ScoreVisibilityDelay: 48 * time.Hour}
	svc := NewDivisionService(f.fixtures, f.tournaments, f.rosters, flags, clk,
		divisiondomain.DefaultPointsPolicy, slog.Default(), metrics.NewNoop(), nil, nil)
	ctx := context.Background()

	before, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Equal(t, 2*(len(data.Fixtures)-1), totalPlayed(before))

	clk.Set(last.Add(47 * time.Hour))
	_, err = svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Equal(t, loadSteps, f.trace.Trace(), "still inside the delay, served from cache")

	clk.Set(last.Add(49 * time.Hour))
	after, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Equal(t, 2*len(data.Fixtures), totalPlayed(after))
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))

	// Nothing is pending any more, so the entry no longer expires.
	clk.Set(last.AddDate(1, 0, 0))
	_, err = svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))
}

func TestStandingsInvalidatedDuringLoadAreNotCached(t *testing.T) {
	data := testutils.NewTestDataGenerator(42).GenerateDivision(3)
	f := newFakes()
	seed(f, data)
	svc := newTestService(f, nil, endOfSeason)
	ctx := context.Background()

	calls := 0
	f.rosters.ListTeamIDsFunc = func(context.Context, bun.IDB) ([]uuid.UUID, error) {
		calls++
		if calls == 1 {
			svc.Invalidate(data.DivisionID, data.SeasonID)
		}
		return nil, nil
	}

	_, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	_, err = svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))

	_, err = svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))
}

func TestStandingsAreCachedPerSeason(t *testing.T) {
	f := newFakes()
	svc := newTestService(f, nil, endOfSeason)
	ctx := context.Background()
	division := uuid.New()

	_, err := svc.Standings(ctx, division, uuid.New())
	require.NoError(t, err)
	_, err = svc.Standings(ctx, division, uuid.New())
	require.NoError(t, err)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))
}

func TestStandingsOnlyCountVisibleFixtures(t *testing.T) {
	gen := testutils.NewTestDataGenerator(7)
	data := gen.GenerateDivision(3)
	data.Tournaments = nil

	tests := []struct {
		name       string
		at         time.Time
		flags      featureflags.Lookup
		wantPlayed int
	}{
		{
			name:       "season over",
			at:         endOfSeason,
			flags:      featureflags.Static{},
			wantPlayed: len(data.Fixtures),
		},
		{
			name:       "before the first fixture",
			at:         data.Fixtures[0].Date.Add(-time.Hour),
			flags:      featureflags.Static{},
			wantPlayed: 0,
		},
		{
			name:       "two fixtures played",
			at:         data.Fixtures[1].Date.Add(time.Hour),
			flags:      featureflags.Static{},
			wantPlayed: 2,
		},
		{
			name:       "delay holds every fixture back",
			at:         endOfSeason,
			flags:      featureflags.Static{featureflags.ScoreVisibilityDelay: 365 * 24 * time.Hour},
			wantPlayed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakes()
			seed(f, data)
			svc := newTestService(f, tt.flags, tt.at)

			result, err := svc.Standings(context.Background(), data.DivisionID, data.SeasonID)
			require.NoError(t, err)

			played := 0
			for _, team := range result.Teams {
				played += team.FixturesPlayed
			}
			// Each fixture counts once for each of its two teams.
			assert.Equal(t, 2*tt.wantPlayed, played)
		})
	}
}

func TestStandingsAsOfBypassesCache(t *testing.T) {
	gen := testutils.NewTestDataGenerator(11)
	data := gen.GenerateDivision(3)
	data.Tournaments = nil
	f := newFakes()
	seed(f, data)
	svc := newTestService(f, nil, endOfSeason)
	ctx := context.Background()

	full, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)

	early, err := svc.StandingsAsOf(ctx, data.DivisionID, data.SeasonID, data.Fixtures[0].Date)
	require.NoError(t, err)
	assert.NotEqual(t, full.Teams, early.Teams)

	again, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)
	assert.Equal(t, full, again)
	assert.Len(t, f.trace.Trace(), 2*len(loadSteps))
}

func TestStandingsLoadFailure(t *testing.T) {
	f := newFakes()
	f.rosters.ListSeasonRostersFunc = func(context.Context, bun.IDB, uuid.UUID) ([]rosterdomain.Roster, error) {
		return nil, errors.New("connection reset")
	}
	svc := newTestService(f, nil, endOfSeason)
	ctx := context.Background()
	division, season := uuid.New(), uuid.New()

	_, err := svc.Standings(ctx, division, season)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rosters")

	_, err = svc.Standings(ctx, division, season)
	require.Error(t, err)
	assert.Len(t, f.trace.Trace(), 6)
}

func TestStandingsInvalidDelay(t *testing.T) {
	f := newFakes()
	svc := newTestService(f, featureflags.Static{featureflags.ScoreVisibilityDelay: -time.Minute}, endOfSeason)

	_, err := svc.Standings(context.Background(), uuid.New(), uuid.New())
	assert.Error(t, err)
}
