package rosterdomain

import (
	"errors"
	"slices"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
)

var (
	// ErrTeamNotFound means the team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamNotRegistered means the team exists but has not entered the season.
	ErrTeamNotRegistered = errors.New("team not registered for season")
)

// Roster is a team's squad for one season.
type Roster struct {
	TeamID   uuid.UUID                 `json:"teamId"`
	TeamName string                    `json:"teamName"`
	SeasonID uuid.UUID                 `json:"seasonId"`
	Players  []fixturedomain.PlayerRef `json:"players"`
}

// Has reports whether the player is on the roster.
func (r Roster) Has(playerID uuid.UUID) bool {
	return slices.ContainsFunc(r.Players, func(p fixturedomain.PlayerRef) bool { return p.ID == playerID })
}

// Lookup resolves a team's roster for a season.
type Lookup interface {
	TeamRoster(teamID, seasonID uuid.UUID) (Roster, error)
}

type rosterKey struct {
	team   uuid.UUID
	season uuid.UUID
}

// StaticRoster is an in-memory Lookup built from already loaded rosters.
type StaticRoster struct {
	rosters map[rosterKey]Roster
	teams   map[uuid.UUID]struct{}
}

// NewStaticRoster indexes rosters. knownTeams lists teams that exist but may
// not be registered for every season.
func NewStaticRoster(rosters []Roster, knownTeams ...uuid.UUID) *StaticRoster {
	s := &StaticRoster{
		rosters: make(map[rosterKey]Roster, len(rosters)),
		teams:   make(map[uuid.UUID]struct{}, len(rosters)+len(knownTeams)),
	}
	for _, r := range rosters {
		s.rosters[rosterKey{team: r.TeamID, season: r.SeasonID}] = r
		s.teams[r.TeamID] = struct{}{}
	}
	for _, id := range knownTeams {
		s.teams[id] = struct{}{}
	}
	return s
}

// TeamRoster implements Lookup.
func (s *StaticRoster) TeamRoster(teamID, seasonID uuid.UUID) (Roster, error) {
	if r, ok := s.rosters[rosterKey{team: teamID, season: seasonID}]; ok {
		return r, nil
	}
	if _, ok := s.teams[teamID]; ok {
		return Roster{}, ErrTeamNotRegistered
	}
	return Roster{}, ErrTeamNotFound
}

var _ Lookup = (*StaticRoster)(nil)
