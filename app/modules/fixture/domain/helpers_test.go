package fixturedomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func player(name string) PlayerRef {
	return PlayerRef{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)), Name: name}
}

func players(prefix string, n int) []PlayerRef {
	out := make([]PlayerRef, n)
	for i := range out {
		out[i] = player(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// playedSlot returns a peopled slot sized for category with the given score.
func playedSlot(category Category, home, away int) Match {
	n := category.PlayersPerSide()
	return Match{
		HomePlayers: players(fmt.Sprintf("home-%s-%d-%d", category, home, away), n),
		AwayPlayers: players(fmt.Sprintf("away-%s-%d-%d", category, home, away), n),
		HomeScore:   intPtr(home),
		AwayScore:   intPtr(away),
	}
}

func newFixture() Fixture {
	return Fixture{
		ID:           uuid.MustParse("7d0c3b8e-2d6a-4f0e-9a51-3c1c3f5d9b01"),
		Date:         time.Date(2026, 3, 12, 19, 30, 0, 0, time.UTC),
		Home:         TeamSide{TeamID: uuid.MustParse("9b1f1f57-0f7e-4b0b-8f0d-2f1b0d6e1a11"), Name: "Crown"},
		Away:         TeamSide{TeamID: uuid.MustParse("0e6a1d2c-3b4f-4e5a-8c9d-1a2b3c4d5e22"), Name: "Anchor"},
		Matches:      make([]Match, 8),
		MatchOptions: DefaultMatchOptions(),
	}
}

// peopledFixture returns a fixture with the first n slots played 3-0 to home.
func peopledFixture(n int) Fixture {
	f := newFixture()
	for i := 0; i < n; i++ {
		f.Matches[i] = playedSlot(SlotCategory(f, i), 3, 0)
	}
	return f
}
