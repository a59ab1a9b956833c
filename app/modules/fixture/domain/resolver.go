package fixturedomain

import (
	"time"

	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
)

// KnockoutVisibleSlots is the number of fully peopled slots after which a
// knockout fixture may reveal its score.
const KnockoutVisibleSlots = 4

// Outcome is the result of a fixture from the home side's perspective.
type Outcome string

const (
	OutcomeUnplayed Outcome = "unplayed"
	OutcomeHomeWin  Outcome = "home-win"
	OutcomeAwayWin  Outcome = "away-win"
	OutcomeDraw     Outcome = "draw"
)

// IsWinner reports whether score is a strict majority of legsToWin. A slot
// configured with zero legs never has a winner.
func IsWinner(score *int, legsToWin int) bool {
	if score == nil {
		return false
	}
	return float64(*score) > float64(legsToWin)/2.0
}

// SideWonSlotCount counts the slots side has won, judging each slot against
// its own configured legs.
func SideWonSlotCount(f Fixture, side Side) int {
	won := 0
	for i, m := range f.Matches {
		if IsWinner(m.Score(side), OptionsFor(f, i).LegsToWin) {
			won++
		}
	}
	return won
}

// PeopledSlotCount counts slots in which both sides fielded players.
func PeopledSlotCount(f Fixture) int {
	n := 0
	for _, m := range f.Matches {
		if m.IsPeopled() {
			n++
		}
	}
	return n
}

// ScoresVisible reports whether the fixture's score may be shown. Knockouts
// need KnockoutVisibleSlots peopled slots, league fixtures need every slot
// peopled, and in both cases the fixture date plus delay must have passed.
func ScoresVisible(f Fixture, delay time.Duration, clk clock.Clock) bool {
	at, ok := VisibleFrom(f, delay)
	return ok && !at.After(clk.NowUTC())
}

// VisibleFrom returns the instant from which the fixture's score may be
// shown. ok is false while the scorecard lacks the peopled slots the
// visibility rule needs, since then no amount of waiting reveals it.
func VisibleFrom(f Fixture, delay time.Duration) (at time.Time, ok bool) {
	peopled := PeopledSlotCount(f)
	if f.IsKnockout {
		if peopled < KnockoutVisibleSlots {
			return time.Time{}, false
		}
	} else if peopled == 0 || peopled < f.SlotCount() {
		return time.Time{}, false
	}
	return f.Date.Add(delay), true
}

// FixtureOutcome compares the slots won by each side.
func FixtureOutcome(f Fixture) Outcome {
	if PeopledSlotCount(f) == 0 {
		return OutcomeUnplayed
	}
	home, away := SideWonSlotCount(f, SideHome), SideWonSlotCount(f, SideAway)
	switch {
	case home > away:
		return OutcomeHomeWin
	case away > home:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}
