package divisiondomain

import (
	"bytes"
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"
)

// PointsPolicy awards league points per fixture result.
type PointsPolicy struct {
	Win  int `yaml:"win" json:"win"`
	Draw int `yaml:"draw" json:"draw"`
	Loss int `yaml:"loss" json:"loss"`
}

// DefaultPointsPolicy awards two points for a win and one for a draw.
var DefaultPointsPolicy = PointsPolicy{Win: 2, Draw: 1, Loss: 0}

// Points returns the total for a fixture record.
func (p PointsPolicy) Points(won, drawn, lost int) int {
	return p.Win*won + p.Draw*drawn + p.Loss*lost
}

// PlayerPoints is the player's singles win percentage, rounded.
func PlayerPoints(p PlayerPerformance) int {
	return int(math.Round(p.Singles.WinRate * 100))
}

// RankPlayers orders players by points then name and assigns 1-based ranks.
// The input slice is sorted in place.
func RankPlayers(players []PlayerPerformance) {
	slices.SortFunc(players, func(a, b PlayerPerformance) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if c := compareUUID(a.PlayerID, b.PlayerID); c != 0 {
			return c
		}
		return compareUUID(a.TeamID, b.TeamID)
	})
	for i := range players {
		players[i].Rank = i + 1
	}
}

// RankTeams orders teams by points, then win/loss difference, then name, and
// assigns 1-based ranks. The input slice is sorted in place.
func RankTeams(teams []TeamScore) {
	slices.SortFunc(teams, func(a, b TeamScore) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Difference, a.Difference); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareUUID(a.TeamID, b.TeamID)
	})
	for i := range teams {
		teams[i].Rank = i + 1
	}
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
