package testutils

import (
	"fmt"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	faker := gofakeit.New(uint64(s))

	return &TestDataGenerator{
		faker: faker,
		seed:  s,
	}
}

// Seed returns the seed the generator was built with, for failure messages.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// DivisionData is a generated season of one division.
type DivisionData struct {
	DivisionID  uuid.UUID
	SeasonID    uuid.UUID
	Rosters     []rosterdomain.Roster
	Fixtures    []fixturedomain.Fixture
	Tournaments []divisiondomain.Tournament
}

func (g *TestDataGenerator) uuid() uuid.UUID {
	return uuid.MustParse(g.faker.UUID())
}

// GeneratePlayers creates count named players.
func (g *TestDataGenerator) GeneratePlayers(count int) []fixturedomain.PlayerRef {
	players := make([]fixturedomain.PlayerRef, count)
	for i := range players {
		players[i] = fixturedomain.PlayerRef{
			ID:   g.uuid(),
			Name: fmt.Sprintf("%s %s", g.faker.FirstName(), g.faker.LastName()),
		}
	}
	return players
}

// GenerateRoster creates a registered team with squadSize players.
func (g *TestDataGenerator) GenerateRoster(seasonID uuid.UUID, squadSize int) rosterdomain.Roster {
	return rosterdomain.Roster{
		TeamID:   g.uuid(),
		TeamName: g.faker.Company(),
		SeasonID: seasonID,
		Players:  g.GeneratePlayers(squadSize),
	}
}

// GenerateSlot creates a played slot for the given options, picking players
// from each squad. Exactly one side wins unless draw is set.
func (g *TestDataGenerator) GenerateSlot(opts fixturedomain.MatchOptions, home, away []fixturedomain.PlayerRef) fixturedomain.Match {
	pick := func(squad []fixturedomain.PlayerRef) []fixturedomain.PlayerRef {
		chosen := make([]fixturedomain.PlayerRef, len(squad))
		copy(chosen, squad)
		g.faker.ShuffleAnySlice(chosen)
		return chosen[:opts.PlayersPerSide]
	}

	majority := opts.LegsToWin/2 + 1
	winner := majority
	loser := g.faker.Number(0, opts.LegsToWin-majority)
	homeScore, awayScore := winner, loser
	if g.faker.Bool() {
		homeScore, awayScore = loser, winner
	}

	return fixturedomain.Match{
		ID:          g.uuid(),
		HomePlayers: pick(home),
		AwayPlayers: pick(away),
		HomeScore:   &homeScore,
		AwayScore:   &awayScore,
	}
}

// GenerateFixture creates a fully played league fixture between two rosters.
func (g *TestDataGenerator) GenerateFixture(divisionID uuid.UUID, home, away rosterdomain.Roster, date time.Time) fixturedomain.Fixture {
	f := fixturedomain.Fixture{
		ID:             g.uuid(),
		DivisionID:     divisionID,
		SeasonID:       home.SeasonID,
		Date:           date,
		Address:        g.faker.Address().Street,
		AccoladesCount: true,
		Home:           fixturedomain.TeamSide{TeamID: home.TeamID, Name: home.TeamName},
		Away:           fixturedomain.TeamSide{TeamID: away.TeamID, Name: away.TeamName},
		MatchOptions:   fixturedomain.DefaultMatchOptions(),
		Updated:        date,
	}
	f.Matches = make([]fixturedomain.Match, len(f.MatchOptions))
	for i, opts := range f.MatchOptions {
		f.Matches[i] = g.GenerateSlot(opts, home.Players, away.Players)
	}

	for i := g.faker.Number(0, 3); i > 0; i-- {
		slot := f.Matches[g.faker.Number(0, len(f.Matches)-1)]
		thrower := slot.HomePlayers[0]
		if g.faker.Bool() {
			thrower = slot.AwayPlayers[0]
		}
		f.OneEighties = append(f.OneEighties, fixturedomain.Accolade{Player: thrower})
	}
	if g.faker.Bool() {
		slot := f.Matches[0]
		f.HiChecks = append(f.HiChecks, fixturedomain.Accolade{Player: slot.HomePlayers[0], Score: g.faker.Number(101, 170)})
	}
	return f
}

// GenerateTournament creates a singles tournament round drawn from rosters.
func (g *TestDataGenerator) GenerateTournament(divisionID, seasonID uuid.UUID, rosters []rosterdomain.Roster, matches int, date time.Time) divisiondomain.Tournament {
	opts := fixturedomain.DefaultOptions(fixturedomain.Singles)
	round := divisiondomain.TournamentRound{Options: opts}
	for i := 0; i < matches && len(rosters) > 1; i++ {
		a := rosters[g.faker.Number(0, len(rosters)-1)]
		b := rosters[g.faker.Number(0, len(rosters)-1)]
		slot := g.GenerateSlot(opts, a.Players, b.Players)
		round.Matches = append(round.Matches, divisiondomain.TournamentMatch{
			SideA:  divisiondomain.TournamentSide{TeamID: a.TeamID, Players: slot.HomePlayers},
			SideB:  divisiondomain.TournamentSide{TeamID: b.TeamID, Players: slot.AwayPlayers},
			ScoreA: slot.HomeScore,
			ScoreB: slot.AwayScore,
		})
	}
	return divisiondomain.Tournament{
		ID:         g.uuid(),
		DivisionID: divisionID,
		SeasonID:   seasonID,
		Name:       g.faker.Company() + " Cup",
		Date:       date,
		Rounds:     []divisiondomain.TournamentRound{round},
	}
}

// GenerateDivision creates teamCount rosters and a double round robin of
// fixtures between them, plus one tournament.
func (g *TestDataGenerator) GenerateDivision(teamCount int) DivisionData {
	data := DivisionData{DivisionID: g.uuid(), SeasonID: g.uuid()}
	for i := 0; i < teamCount; i++ {
		data.Rosters = append(data.Rosters, g.GenerateRoster(data.SeasonID, g.faker.Number(6, 9)))
	}

	date := time.Date(2026, time.January, 8, 19, 30, 0, 0, time.UTC)
	for _, home := range data.Rosters {
		for _, away := range data.Rosters {
			if home.TeamID == away.TeamID {
				continue
			}
			data.Fixtures = append(data.Fixtures, g.GenerateFixture(data.DivisionID, home, away, date))
			date = date.AddDate(0, 0, 7)
		}
	}

	data.Tournaments = append(data.Tournaments, g.GenerateTournament(data.DivisionID, data.SeasonID, data.Rosters, g.faker.Number(2, 6), date))
	return data
}

// Shuffle reorders fixtures in place.
func (g *TestDataGenerator) Shuffle(fixtures []fixturedomain.Fixture) {
	g.faker.ShuffleAnySlice(fixtures)
}
