package divisiondomain_test

import (
	"testing"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/Black-And-White-Club/dart-league/integration_tests/testutils"
	"github.com/google/go-cmp/cmp"
)

func TestAggregateDivisionOrderIndependent(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 2026} {
		gen := testutils.NewTestDataGenerator(seed)
		data := gen.GenerateDivision(5)
		lookup := rosterdomain.NewStaticRoster(data.Rosters)

		want := divisiondomain.AggregateDivision(data.Fixtures, data.Tournaments, lookup, divisiondomain.DefaultPointsPolicy)
		for i := 0; i < 3; i++ {
			gen.Shuffle(data.Fixtures)
			got := divisiondomain.AggregateDivision(data.Fixtures, data.Tournaments, lookup, divisiondomain.DefaultPointsPolicy)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("seed %d shuffle %d: result changed (-want +got):\n%s", gen.Seed(), i, diff)
			}
		}

		played := 0
		for _, team := range want.Teams {
			played += team.FixturesPlayed
			if team.FixturesWon+team.FixturesDrawn+team.FixturesLost != team.FixturesPlayed {
				t.Fatalf("seed %d: %s results do not add up: %+v", seed, team.Name, team)
			}
		}
		if played != 2*len(data.Fixtures) {
			t.Fatalf("seed %d: %d team fixtures, want %d", seed, played, 2*len(data.Fixtures))
		}
	}
}
