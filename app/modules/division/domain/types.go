package divisiondomain

import (
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
)

// Tournament is a side competition within a division. Its matches count
// towards player performance but not towards fixture results.
type Tournament struct {
	ID         uuid.UUID         `json:"id"`
	DivisionID uuid.UUID         `json:"divisionId"`
	SeasonID   uuid.UUID         `json:"seasonId"`
	Name       string            `json:"name"`
	Date       time.Time         `json:"date"`
	Deleted    bool              `json:"deleted,omitempty"`
	Rounds     []TournamentRound `json:"rounds"`
}

// TournamentRound groups matches sharing the same options.
type TournamentRound struct {
	Options fixturedomain.MatchOptions `json:"options"`
	Matches []TournamentMatch          `json:"matches"`
}

// TournamentMatch is one game between two tournament sides.
type TournamentMatch struct {
	SideA  TournamentSide `json:"sideA"`
	SideB  TournamentSide `json:"sideB"`
	ScoreA *int           `json:"scoreA,omitempty"`
	ScoreB *int           `json:"scoreB,omitempty"`
}

// TournamentSide names the players of a side and the team they represent.
type TournamentSide struct {
	TeamID  uuid.UUID                 `json:"teamId"`
	Players []fixturedomain.PlayerRef `json:"players"`
}

// CategoryPerformance holds a player's record in one match category.
// TeamWinRate and TeamLossRate are the player's own rates divided by the
// category's players per side, so an unbeaten pairs player credits the team 0.5.
type CategoryPerformance struct {
	MatchesPlayed int     `json:"matchesPlayed"`
	MatchesWon    int     `json:"matchesWon"`
	MatchesLost   int     `json:"matchesLost"`
	WinRate       float64 `json:"winRate"`
	LossRate      float64 `json:"lossRate"`
	TeamWinRate   float64 `json:"teamWinRate"`
	TeamLossRate  float64 `json:"teamLossRate"`
}

// PlayerPerformance is a player's season record for one team.
type PlayerPerformance struct {
	PlayerID    uuid.UUID           `json:"playerId"`
	Name        string              `json:"name"`
	TeamID      uuid.UUID           `json:"teamId"`
	TeamName    string              `json:"teamName"`
	Unknown     bool                `json:"unknown,omitempty"`
	Singles     CategoryPerformance `json:"singles"`
	Pairs       CategoryPerformance `json:"pairs"`
	Triples     CategoryPerformance `json:"triples"`
	Fixtures    int                 `json:"fixtures"`
	OneEighties int                 `json:"oneEighties"`
	HiCheck     int                 `json:"hiCheck"`
	Points      int                 `json:"points"`
	Rank        int                 `json:"rank"`
}

// Category returns the record for c.
func (p PlayerPerformance) Category(c fixturedomain.Category) CategoryPerformance {
	switch c {
	case fixturedomain.Pairs:
		return p.Pairs
	case fixturedomain.Triples:
		return p.Triples
	default:
		return p.Singles
	}
}

func (p *PlayerPerformance) category(c fixturedomain.Category) *CategoryPerformance {
	switch c {
	case fixturedomain.Pairs:
		return &p.Pairs
	case fixturedomain.Triples:
		return &p.Triples
	default:
		return &p.Singles
	}
}

// TeamWinRate sums the player's team-attributed win rates across categories.
func (p PlayerPerformance) TeamWinRate() float64 {
	return p.Singles.TeamWinRate + p.Pairs.TeamWinRate + p.Triples.TeamWinRate
}

// TeamLossRate sums the player's team-attributed loss rates across categories.
func (p PlayerPerformance) TeamLossRate() float64 {
	return p.Singles.TeamLossRate + p.Pairs.TeamLossRate + p.Triples.TeamLossRate
}

// TeamScore is a team's standing in the division.
type TeamScore struct {
	TeamID         uuid.UUID `json:"teamId"`
	Name           string    `json:"name"`
	Unknown        bool      `json:"unknown,omitempty"`
	FixturesPlayed int       `json:"fixturesPlayed"`
	FixturesWon    int       `json:"fixturesWon"`
	FixturesLost   int       `json:"fixturesLost"`
	FixturesDrawn  int       `json:"fixturesDrawn"`
	Points         int       `json:"points"`
	WinRate        float64   `json:"winRate"`
	LossRate       float64   `json:"lossRate"`
	Difference     float64   `json:"difference"`
	Rank           int       `json:"rank"`
}

// Result is the output of one aggregation pass.
type Result struct {
	Players []PlayerPerformance `json:"players"`
	Teams   []TeamScore         `json:"teams"`
}
