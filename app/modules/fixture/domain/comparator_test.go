package fixturedomain

import "testing"

func TestMatchesEqual(t *testing.T) {
	alice, bob := player("alice"), player("bob")

	tests := []struct {
		name string
		a, b *Match
		want bool
	}{
		{name: "both nil", want: true},
		{name: "one nil", a: &Match{}, want: false},
		{name: "both empty", a: &Match{}, b: &Match{}, want: true},
		{name: "nil and empty player lists", a: &Match{HomePlayers: nil}, b: &Match{HomePlayers: []PlayerRef{}}, want: true},
		{name: "nil and empty away lists with scores", a: &Match{AwayPlayers: []PlayerRef{}, HomeScore: intPtr(0)}, b: &Match{HomeScore: intPtr(0)}, want: true},
		{
			name: "same scores and seats",
			a:    &Match{HomePlayers: []PlayerRef{alice}, AwayPlayers: []PlayerRef{bob}, HomeScore: intPtr(3), AwayScore: intPtr(1)},
			b:    &Match{HomePlayers: []PlayerRef{alice}, AwayPlayers: []PlayerRef{bob}, HomeScore: intPtr(3), AwayScore: intPtr(1)},
			want: true,
		},
		{
			name: "different score",
			a:    &Match{HomeScore: intPtr(3), AwayScore: intPtr(1)},
			b:    &Match{HomeScore: intPtr(3), AwayScore: intPtr(2)},
			want: false,
		},
		{
			name: "absent score against zero",
			a:    &Match{HomeScore: nil},
			b:    &Match{HomeScore: intPtr(0)},
			want: false,
		},
		{
			name: "players present on one side only",
			a:    &Match{HomePlayers: []PlayerRef{alice}},
			b:    &Match{},
			want: false,
		},
		{
			name: "seat order matters",
			a:    &Match{HomePlayers: []PlayerRef{alice, bob}},
			b:    &Match{HomePlayers: []PlayerRef{bob, alice}},
			want: false,
		},
		{
			name: "names are not compared",
			a:    &Match{AwayPlayers: []PlayerRef{{ID: alice.ID, Name: "Alice"}}},
			b:    &Match{AwayPlayers: []PlayerRef{{ID: alice.ID, Name: "alice s."}}},
			want: true,
		},
		{
			name: "live scoring ignored",
			a:    &Match{HomeScore: intPtr(1), LiveScoring: &LiveScoring{ID: alice.ID}},
			b:    &Match{HomeScore: intPtr(1)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesEqual(tt.a, tt.b); got != tt.want {
				t.Fatalf("MatchesEqual(a, b) = %v, want %v", got, tt.want)
			}
			if got := MatchesEqual(tt.b, tt.a); got != tt.want {
				t.Fatalf("MatchesEqual(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesEqualReflexive(t *testing.T) {
	f := peopledFixture(8)
	for i := range f.Matches {
		m := f.Matches[i]
		if !MatchesEqual(&m, &m) {
			t.Fatalf("slot %d not equal to itself", i)
		}
		clone := m.Clone()
		if !MatchesEqual(&m, &clone) {
			t.Fatalf("slot %d not equal to its clone", i)
		}
	}
}
