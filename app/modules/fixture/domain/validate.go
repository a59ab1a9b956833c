package fixturedomain

import "fmt"

// ValidateMatch checks a slot against its options: player lists are empty or
// exactly players-per-side long, scores lie within 0..legs, and at most one
// side holds a majority.
func ValidateMatch(m Match, opts MatchOptions) error {
	for _, side := range []Side{SideHome, SideAway} {
		if n := len(m.Players(side)); n != 0 && n != opts.PlayersPerSide {
			return fmt.Errorf("%w: %s has %d, want %d", ErrPlayerCount, side, n, opts.PlayersPerSide)
		}
		if s := m.Score(side); s != nil && (*s < 0 || *s > opts.LegsToWin) {
			return fmt.Errorf("%w: %s score %d outside 0..%d", ErrInvalidScore, side, *s, opts.LegsToWin)
		}
	}
	if IsWinner(m.HomeScore, opts.LegsToWin) && IsWinner(m.AwayScore, opts.LegsToWin) {
		return fmt.Errorf("%w: both sides won", ErrInvalidScore)
	}
	return nil
}

// ValidateScorecard validates every slot of a submitted scorecard.
func ValidateScorecard(f Fixture) error {
	for i, m := range f.Matches {
		if err := ValidateMatch(m, OptionsFor(f, i)); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return nil
}
