package divisionintegrationtests

import (
	"context"
	"log/slog"
	"testing"
	"time"

	divisionservice "github.com/Black-And-White-Club/dart-league/app/modules/division/application"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	divisiondb "github.com/Black-And-White-Club/dart-league/app/modules/division/infrastructure/repositories"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	rosterservice "github.com/Black-And-White-Club/dart-league/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/dart-league/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamRow struct {
	TeamID uuid.UUID
	Rank   int
	Played int
	Points int
}

type playerRow struct {
	PlayerID uuid.UUID
	TeamID   uuid.UUID
	Fixtures int
	Points   int
}

func project(r divisiondomain.Result) ([]teamRow, []playerRow) {
	teams := make([]teamRow, 0, len(r.Teams))
	for _, t := range r.Teams {
		teams = append(teams, teamRow{TeamID: t.TeamID, Rank: t.Rank, Played: t.FixturesPlayed, Points: t.Points})
	}
	players := make([]playerRow, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, playerRow{PlayerID: p.PlayerID, TeamID: p.TeamID, Fixtures: p.Fixtures, Points: p.Points})
	}
	return teams, players
}

func TestStandingsFromDatabaseMatchAggregation(t *testing.T) {
	require.NoError(t, env.Reset(context.Background()))
	ctx := context.Background()
	gen := testutils.NewTestDataGenerator(21)
	data := gen.GenerateDivision(4)

	rosters := rosterdb.NewRepository(env.DB)
	fixtures := fixturedb.NewRepository(env.DB)
	tournaments := divisiondb.NewRepository(env.DB)

	importer := rosterservice.NewImporter(rosters, slog.Default(), env.DB)
	require.NoError(t, importer.Import(ctx, data.Rosters))
	for i := range data.Fixtures {
		require.NoError(t, fixtures.Create(ctx, nil, &data.Fixtures[i]))
	}
	for i := range data.Tournaments {
		require.NoError(t, tournaments.Upsert(ctx, nil, &data.Tournaments[i]))
	}

	svc := divisionservice.NewDivisionService(
		fixtures,
		tournaments,
		rosters,
		nil,
		clock.NewAnchorClock(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)),
		divisiondomain.DefaultPointsPolicy,
		slog.Default(),
		metrics.NewNoop(),
		nil,
		env.DB,
	)

	got, err := svc.Standings(ctx, data.DivisionID, data.SeasonID)
	require.NoError(t, err)

	teamIDs := make([]uuid.UUID, len(data.Rosters))
	for i, r := range data.Rosters {
		teamIDs[i] = r.TeamID
	}
	want := divisiondomain.AggregateDivision(data.Fixtures, data.Tournaments,
		rosterdomain.NewStaticRoster(data.Rosters, teamIDs...), divisiondomain.DefaultPointsPolicy)

	wantTeams, wantPlayers := project(want)
	gotTeams, gotPlayers := project(*got)
	assert.Equal(t, wantTeams, gotTeams, "seed %d", gen.Seed())
	assert.ElementsMatch(t, wantPlayers, gotPlayers, "seed %d", gen.Seed())
}

func TestStandingsAsOfFromDatabase(t *testing.T) {
	require.NoError(t, env.Reset(context.Background()))
	ctx := context.Background()
	data := testutils.NewTestDataGenerator(8).GenerateDivision(3)
	data.Tournaments = nil

	rosters := rosterdb.NewRepository(env.DB)
	fixtures := fixturedb.NewRepository(env.DB)
	require.NoError(t, rosterservice.NewImporter(rosters, slog.Default(), env.DB).Import(ctx, data.Rosters))
	for i := range data.Fixtures {
		require.NoError(t, fixtures.Create(ctx, nil, &data.Fixtures[i]))
	}

	svc := divisionservice.NewDivisionService(fixtures, divisiondb.NewRepository(env.DB), rosters,
		nil, nil, divisiondomain.DefaultPointsPolicy, slog.Default(), metrics.NewNoop(), nil, env.DB)

	got, err := svc.StandingsAsOf(ctx, data.DivisionID, data.SeasonID, data.Fixtures[0].Date.Add(time.Hour))
	require.NoError(t, err)

	played := 0
	for _, team := range got.Teams {
		played += team.FixturesPlayed
	}
	assert.Equal(t, 2, played)
}
