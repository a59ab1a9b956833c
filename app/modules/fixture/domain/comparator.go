package fixturedomain

// MatchesEqual reports whether two slots record the same scores and the same
// players in the same seats. Live-scoring references are not compared. A nil
// player list and an empty one are equal, since a stored slot drops empty
// lists and must still match the submission it was merged from. Scores are
// not treated that way: an absent score differs from zero.
func MatchesEqual(a, b *Match) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !scoresEqual(a.HomeScore, b.HomeScore) || !scoresEqual(a.AwayScore, b.AwayScore) {
		return false
	}
	return playersEqual(a.HomePlayers, b.HomePlayers) && playersEqual(a.AwayPlayers, b.AwayPlayers)
}

func scoresEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// playersEqual compares seats by player ID. Nil and empty both mean no players fielded.
func playersEqual(a, b []PlayerRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
