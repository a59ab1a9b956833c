package fixturedomain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Side identifies the home or away half of a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is home or away.
func (s Side) Valid() bool { return s == SideHome || s == SideAway }

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// PlayerRef names a player as recorded on a scorecard.
type PlayerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Accolade is a notable event thrown by a player. Score carries the checkout
// value for hi-checks and is zero for 180s.
type Accolade struct {
	Player PlayerRef `json:"player"`
	Score  int       `json:"score,omitempty"`
}

// LiveScoring references an in-progress leg-by-leg scoring session attached to
// a slot. Merges never discard it unless the proposal brings its own.
type LiveScoring struct {
	ID uuid.UUID `json:"id"`
}

// Match is one slot of a fixture.
type Match struct {
	ID          uuid.UUID    `json:"id"`
	HomePlayers []PlayerRef  `json:"homePlayers,omitempty"`
	AwayPlayers []PlayerRef  `json:"awayPlayers,omitempty"`
	HomeScore   *int         `json:"homeScore,omitempty"`
	AwayScore   *int         `json:"awayScore,omitempty"`
	LiveScoring *LiveScoring `json:"liveScoring,omitempty"`
}

// Players returns the player list for side.
func (m Match) Players(side Side) []PlayerRef {
	if side == SideHome {
		return m.HomePlayers
	}
	return m.AwayPlayers
}

// Score returns the score for side.
func (m Match) Score(side Side) *int {
	if side == SideHome {
		return m.HomeScore
	}
	return m.AwayScore
}

// IsEmpty reports whether nothing has been recorded on the slot.
func (m Match) IsEmpty() bool {
	return len(m.HomePlayers) == 0 && len(m.AwayPlayers) == 0 && m.HomeScore == nil && m.AwayScore == nil
}

// IsPublished reports whether either side has a nonzero score. Published
// slots are frozen for merging.
func (m Match) IsPublished() bool {
	return (m.HomeScore != nil && *m.HomeScore > 0) || (m.AwayScore != nil && *m.AwayScore > 0)
}

// IsPeopled reports whether both sides have fielded players.
func (m Match) IsPeopled() bool {
	return len(m.HomePlayers) > 0 && len(m.AwayPlayers) > 0
}

// IsPlayed reports whether the slot counts towards statistics.
func (m Match) IsPlayed() bool {
	return m.IsPeopled() && (m.HomeScore != nil || m.AwayScore != nil)
}

// Clone returns a deep copy.
func (m Match) Clone() Match {
	out := m
	out.HomePlayers = slices.Clone(m.HomePlayers)
	out.AwayPlayers = slices.Clone(m.AwayPlayers)
	out.HomeScore = clonePtr(m.HomeScore)
	out.AwayScore = clonePtr(m.AwayScore)
	out.LiveScoring = clonePtr(m.LiveScoring)
	return out
}

// TeamSide is one team's half of a fixture.
type TeamSide struct {
	TeamID        uuid.UUID  `json:"teamId"`
	Name          string     `json:"name"`
	ManOfTheMatch *PlayerRef `json:"manOfTheMatch,omitempty"`
}

// Fixture is a scheduled contest between two teams. Submissions are snapshots
// of the same shape authored by one side.
type Fixture struct {
	ID             uuid.UUID      `json:"id"`
	DivisionID     uuid.UUID      `json:"divisionId"`
	SeasonID       uuid.UUID      `json:"seasonId"`
	Date           time.Time      `json:"date"`
	Address        string         `json:"address,omitempty"`
	Postponed      bool           `json:"postponed,omitempty"`
	IsKnockout     bool           `json:"isKnockout,omitempty"`
	AccoladesCount bool           `json:"accoladesCount,omitempty"`
	Deleted        bool           `json:"deleted,omitempty"`
	Home           TeamSide       `json:"home"`
	Away           TeamSide       `json:"away"`
	Matches        []Match        `json:"matches,omitempty"`
	MatchOptions   []MatchOptions `json:"matchOptions,omitempty"`
	OneEighties    []Accolade     `json:"oneEighties,omitempty"`
	HiChecks       []Accolade     `json:"hiChecks,omitempty"`
	HomeSubmission *Fixture       `json:"homeSubmission,omitempty"`
	AwaySubmission *Fixture       `json:"awaySubmission,omitempty"`
	Author         string         `json:"author,omitempty"`
	Editor         string         `json:"editor,omitempty"`
	Updated        time.Time      `json:"updated"`
}

// Team returns the team side.
func (f Fixture) Team(side Side) TeamSide {
	if side == SideHome {
		return f.Home
	}
	return f.Away
}

// Submission returns the snapshot submitted by side, or nil.
func (f Fixture) Submission(side Side) *Fixture {
	if side == SideHome {
		return f.HomeSubmission
	}
	return f.AwaySubmission
}

// Accolades returns the canonical list for category.
func (f Fixture) Accolades(category AccoladeCategory) []Accolade {
	if category == OneEighties {
		return f.OneEighties
	}
	return f.HiChecks
}

// SlotCount is the number of addressable slots: the larger of the recorded
// matches and configured options, or the default layout when neither exists.
func (f Fixture) SlotCount() int {
	n := max(len(f.Matches), len(f.MatchOptions))
	if n == 0 {
		return len(defaultLayout)
	}
	return n
}

// Slot returns the match at index, or an empty match when it has not been
// recorded yet.
func (f Fixture) Slot(index int) Match {
	if index >= 0 && index < len(f.Matches) {
		return f.Matches[index]
	}
	return Match{}
}

// Clone returns a deep copy, including submissions.
func (f Fixture) Clone() Fixture {
	out := f
	out.Home.ManOfTheMatch = clonePtr(f.Home.ManOfTheMatch)
	out.Away.ManOfTheMatch = clonePtr(f.Away.ManOfTheMatch)
	if f.Matches != nil {
		out.Matches = make([]Match, len(f.Matches))
		for i, m := range f.Matches {
			out.Matches[i] = m.Clone()
		}
	}
	out.MatchOptions = slices.Clone(f.MatchOptions)
	out.OneEighties = slices.Clone(f.OneEighties)
	out.HiChecks = slices.Clone(f.HiChecks)
	if f.HomeSubmission != nil {
		sub := f.HomeSubmission.Clone()
		out.HomeSubmission = &sub
	}
	if f.AwaySubmission != nil {
		sub := f.AwaySubmission.Clone()
		out.AwaySubmission = &sub
	}
	return out
}

// WithSubmission returns a copy of f carrying sub as side's submission.
// Nested submissions on sub are dropped.
func (f Fixture) WithSubmission(side Side, sub Fixture) Fixture {
	out := f.Clone()
	snapshot := sub.Clone()
	snapshot.HomeSubmission = nil
	snapshot.AwaySubmission = nil
	if side == SideHome {
		out.HomeSubmission = &snapshot
	} else {
		out.AwaySubmission = &snapshot
	}
	return out
}

// WithUpdated returns a copy of f stamped with the given update time and editor.
func (f Fixture) WithUpdated(at time.Time, editor string) Fixture {
	out := f.Clone()
	out.Updated = at
	if editor != "" {
		out.Editor = editor
	}
	return out
}

func (f *Fixture) team(side Side) *TeamSide {
	if side == SideHome {
		return &f.Home
	}
	return &f.Away
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
