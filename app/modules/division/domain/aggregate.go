package divisiondomain

import (
	"bytes"
	"slices"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/google/uuid"
)

type playerKey struct {
	team   uuid.UUID
	player uuid.UUID
}

type rosterKey struct {
	team   uuid.UUID
	season uuid.UUID
}

type rosterEntry struct {
	roster rosterdomain.Roster
	known  bool
}

type teamState struct {
	score TeamScore
}

type aggregator struct {
	lookup  rosterdomain.Lookup
	rosters map[rosterKey]rosterEntry
	teams   map[uuid.UUID]*teamState
	players map[playerKey]*PlayerPerformance
}

// AggregateDivision folds canonical fixtures and tournaments into player and
// team statistics. Deleted and postponed fixtures are skipped. Teams or
// players missing from the roster are reported as Unknown with zero stats.
// The result does not depend on the order of the inputs.
func AggregateDivision(fixtures []fixturedomain.Fixture, tournaments []Tournament, lookup rosterdomain.Lookup, policy PointsPolicy) Result {
	a := &aggregator{
		lookup:  lookup,
		rosters: make(map[rosterKey]rosterEntry),
		teams:   make(map[uuid.UUID]*teamState),
		players: make(map[playerKey]*PlayerPerformance),
	}
	for _, f := range fixtures {
		if f.Deleted || f.Postponed {
			continue
		}
		a.addFixture(f)
	}
	for _, t := range tournaments {
		if t.Deleted {
			continue
		}
		a.addTournament(t)
	}
	return a.result(policy)
}

func (a *aggregator) roster(teamID, seasonID uuid.UUID) rosterEntry {
	key := rosterKey{team: teamID, season: seasonID}
	if entry, ok := a.rosters[key]; ok {
		return entry
	}
	var entry rosterEntry
	if a.lookup != nil && teamID != uuid.Nil {
		r, err := a.lookup.TeamRoster(teamID, seasonID)
		entry = rosterEntry{roster: r, known: err == nil}
	}
	a.rosters[key] = entry
	return entry
}

func (a *aggregator) team(teamID, seasonID uuid.UUID, name string) (*teamState, rosterEntry) {
	entry := a.roster(teamID, seasonID)
	t, ok := a.teams[teamID]
	if !ok {
		t = &teamState{score: TeamScore{TeamID: teamID, Unknown: true}}
		a.teams[teamID] = t
	}
	if entry.known {
		t.score.Unknown = false
	}
	if entry.known && entry.roster.TeamName != "" {
		t.score.Name = entry.roster.TeamName
	} else {
		t.score.Name = fallbackName(t.score.Name, name)
	}
	return t, entry
}

func (a *aggregator) player(team *teamState, entry rosterEntry, ref fixturedomain.PlayerRef) *PlayerPerformance {
	key := playerKey{team: team.score.TeamID, player: ref.ID}
	p, ok := a.players[key]
	if !ok {
		p = &PlayerPerformance{
			PlayerID: ref.ID,
			TeamID:   team.score.TeamID,
			TeamName: team.score.Name,
			Unknown:  !entry.known || !entry.roster.Has(ref.ID),
		}
		a.players[key] = p
	}
	if name := rosterPlayerName(entry, ref.ID); name != "" {
		p.Name = name
	} else {
		p.Name = fallbackName(p.Name, ref.Name)
	}
	return p
}

func rosterPlayerName(entry rosterEntry, id uuid.UUID) string {
	for _, rp := range entry.roster.Players {
		if rp.ID == id {
			return rp.Name
		}
	}
	return ""
}

// fallbackName picks between two names copied onto fixtures when the roster
// has none. The lexically smallest non-empty name wins so the choice does not
// depend on fixture order.
func fallbackName(current, candidate string) string {
	if candidate == "" {
		return current
	}
	if current == "" || candidate < current {
		return candidate
	}
	return current
}

// addSide records one side's players for a played slot.
func (a *aggregator) addSide(team *teamState, entry rosterEntry, refs []fixturedomain.PlayerRef, own, opponent *int, opts fixturedomain.MatchOptions, appeared map[playerKey]struct{}) {
	won := fixturedomain.IsWinner(own, opts.LegsToWin)
	lost := fixturedomain.IsWinner(opponent, opts.LegsToWin)
	for _, ref := range refs {
		p := a.player(team, entry, ref)
		if p.Unknown {
			continue
		}
		if appeared != nil {
			appeared[playerKey{team: p.TeamID, player: p.PlayerID}] = struct{}{}
		}
		c := p.category(opts.Category())
		c.MatchesPlayed++
		if won {
			c.MatchesWon++
		}
		if lost {
			c.MatchesLost++
		}
	}
}

func (a *aggregator) addFixture(f fixturedomain.Fixture) {
	home, homeRoster := a.team(f.Home.TeamID, f.SeasonID, f.Home.Name)
	away, awayRoster := a.team(f.Away.TeamID, f.SeasonID, f.Away.Name)

	appeared := make(map[playerKey]struct{})
	played := 0
	for i, m := range f.Matches {
		if !m.IsPlayed() {
			continue
		}
		played++
		opts := fixturedomain.OptionsFor(f, i)
		a.addSide(home, homeRoster, m.HomePlayers, m.HomeScore, m.AwayScore, opts, appeared)
		a.addSide(away, awayRoster, m.AwayPlayers, m.AwayScore, m.HomeScore, opts, appeared)
	}
	for key := range appeared {
		a.players[key].Fixtures++
	}

	if played > 0 {
		outcome := fixturedomain.FixtureOutcome(f)
		recordOutcome(home, homeRoster, outcome, fixturedomain.OutcomeHomeWin)
		recordOutcome(away, awayRoster, outcome, fixturedomain.OutcomeAwayWin)
	}

	if f.AccoladesCount {
		a.addAccolades(f, home, homeRoster, away, awayRoster)
	}
}

func recordOutcome(t *teamState, entry rosterEntry, outcome, win fixturedomain.Outcome) {
	if !entry.known {
		return
	}
	t.score.FixturesPlayed++
	switch outcome {
	case win:
		t.score.FixturesWon++
	case fixturedomain.OutcomeDraw:
		t.score.FixturesDrawn++
	default:
		t.score.FixturesLost++
	}
}

func (a *aggregator) addAccolades(f fixturedomain.Fixture, home *teamState, homeRoster rosterEntry, away *teamState, awayRoster rosterEntry) {
	owner := func(ref fixturedomain.PlayerRef) *PlayerPerformance {
		for _, m := range f.Matches {
			if containsPlayer(m.HomePlayers, ref.ID) {
				return a.player(home, homeRoster, ref)
			}
			if containsPlayer(m.AwayPlayers, ref.ID) {
				return a.player(away, awayRoster, ref)
			}
		}
		switch {
		case homeRoster.known && homeRoster.roster.Has(ref.ID):
			return a.player(home, homeRoster, ref)
		case awayRoster.known && awayRoster.roster.Has(ref.ID):
			return a.player(away, awayRoster, ref)
		}
		return nil
	}

	for _, acc := range f.OneEighties {
		if p := owner(acc.Player); p != nil && !p.Unknown {
			p.OneEighties++
		}
	}
	for _, acc := range f.HiChecks {
		if p := owner(acc.Player); p != nil && !p.Unknown {
			p.HiCheck = max(p.HiCheck, acc.Score)
		}
	}
}

func containsPlayer(refs []fixturedomain.PlayerRef, id uuid.UUID) bool {
	return slices.ContainsFunc(refs, func(p fixturedomain.PlayerRef) bool { return p.ID == id })
}

func (a *aggregator) addTournament(t Tournament) {
	for _, round := range t.Rounds {
		opts := fixturedomain.CompleteOptions(round.Options, fixturedomain.Singles)
		for _, m := range round.Matches {
			if len(m.SideA.Players) == 0 || len(m.SideB.Players) == 0 || (m.ScoreA == nil && m.ScoreB == nil) {
				continue
			}
			teamA, rosterA := a.team(m.SideA.TeamID, t.SeasonID, "")
			teamB, rosterB := a.team(m.SideB.TeamID, t.SeasonID, "")
			a.addSide(teamA, rosterA, m.SideA.Players, m.ScoreA, m.ScoreB, opts, nil)
			a.addSide(teamB, rosterB, m.SideB.Players, m.ScoreB, m.ScoreA, opts, nil)
		}
	}
}

func finishCategory(c *CategoryPerformance, category fixturedomain.Category) {
	if c.MatchesPlayed == 0 {
		return
	}
	played := float64(c.MatchesPlayed)
	perSide := float64(category.PlayersPerSide())
	c.WinRate = float64(c.MatchesWon) / played
	c.LossRate = float64(c.MatchesLost) / played
	c.TeamWinRate = c.WinRate / perSide
	c.TeamLossRate = c.LossRate / perSide
}

func (a *aggregator) result(policy PointsPolicy) Result {
	keys := make([]playerKey, 0, len(a.players))
	for key := range a.players {
		keys = append(keys, key)
	}
	// Float sums are accumulated in a fixed order so repeated runs agree.
	slices.SortFunc(keys, func(x, y playerKey) int {
		if c := bytes.Compare(x.team[:], y.team[:]); c != 0 {
			return c
		}
		return bytes.Compare(x.player[:], y.player[:])
	})

	players := make([]PlayerPerformance, 0, len(keys))
	for _, key := range keys {
		p := a.players[key]
		for _, c := range fixturedomain.Categories {
			finishCategory(p.category(c), c)
		}
		p.Points = PlayerPoints(*p)
		if t, ok := a.teams[key.team]; ok {
			p.TeamName = t.score.Name
			t.score.WinRate += p.TeamWinRate()
			t.score.LossRate += p.TeamLossRate()
		}
		players = append(players, *p)
	}

	teams := make([]TeamScore, 0, len(a.teams))
	for id, t := range a.teams {
		if id == uuid.Nil {
			continue
		}
		s := t.score
		s.Difference = s.WinRate - s.LossRate
		s.Points = policy.Points(s.FixturesWon, s.FixturesDrawn, s.FixturesLost)
		teams = append(teams, s)
	}

	RankPlayers(players)
	RankTeams(teams)
	return Result{Players: players, Teams: teams}
}

// FilterVisible keeps the fixtures for which keep returns true.
func FilterVisible(fixtures []fixturedomain.Fixture, keep func(fixturedomain.Fixture) bool) []fixturedomain.Fixture {
	out := make([]fixturedomain.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// TeamByID returns the standing for a team.
func (r Result) TeamByID(id uuid.UUID) (TeamScore, bool) {
	i := slices.IndexFunc(r.Teams, func(t TeamScore) bool { return t.TeamID == id })
	if i < 0 {
		return TeamScore{}, false
	}
	return r.Teams[i], true
}

// PlayerByID returns the performance of a player for a team.
func (r Result) PlayerByID(teamID, playerID uuid.UUID) (PlayerPerformance, bool) {
	i := slices.IndexFunc(r.Players, func(p PlayerPerformance) bool {
		return p.TeamID == teamID && p.PlayerID == playerID
	})
	if i < 0 {
		return PlayerPerformance{}, false
	}
	return r.Players[i], true
}
