package fixturedomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManOfMatchState(t *testing.T) {
	alice, bob, carol := player("alice"), player("bob"), player("carol")

	homeSub := newFixture()
	homeSub.Home.ManOfTheMatch = &alice
	homeSub.Away.ManOfTheMatch = &bob // home cannot nominate for away

	f := newFixture().WithSubmission(SideHome, homeSub)

	home := ManOfMatchState(f, SideHome)
	if home.Status != MergeProposed || home.Player.ID != alice.ID {
		t.Fatalf("home state = %+v, want proposed alice", home)
	}
	if away := ManOfMatchState(f, SideAway); away.Status != MergeNothingToMerge {
		t.Fatalf("away state = %+v, want nothing-to-merge", away)
	}

	f.Home.ManOfTheMatch = &carol
	if home := ManOfMatchState(f, SideHome); home.Status != MergeAlreadyMerged || home.Player.ID != carol.ID {
		t.Fatalf("home state = %+v, want already-merged carol", home)
	}
}

func TestMergeManOfMatch(t *testing.T) {
	alice, bob := player("alice"), player("bob")
	awaySub := newFixture()
	awaySub.Away.ManOfTheMatch = &bob
	awaySub.Home.ManOfTheMatch = &alice

	f := newFixture()
	got, err := MergeManOfMatch(f, SideAway, &awaySub)
	if err != nil {
		t.Fatalf("MergeManOfMatch: %v", err)
	}
	if got.Away.ManOfTheMatch == nil || got.Away.ManOfTheMatch.ID != bob.ID {
		t.Fatalf("away man of the match = %+v, want bob", got.Away.ManOfTheMatch)
	}
	if got.Home.ManOfTheMatch != nil {
		t.Fatalf("home value copied from away submission")
	}
	if f.Away.ManOfTheMatch != nil {
		t.Fatalf("input mutated")
	}

	empty := newFixture()
	if _, err := MergeManOfMatch(f, SideHome, &empty); !errors.Is(err, ErrNothingToMerge) {
		t.Fatalf("err = %v, want ErrNothingToMerge", err)
	}
	if _, err := MergeManOfMatch(f, SideHome, nil); !errors.Is(err, ErrNoSubmission) {
		t.Fatalf("err = %v, want ErrNoSubmission", err)
	}
}

func TestAccoladeListState(t *testing.T) {
	alice, bob := player("alice"), player("bob")
	homeSub := newFixture()
	homeSub.OneEighties = []Accolade{{Player: alice}, {Player: alice}}
	awaySub := newFixture()
	awaySub.OneEighties = []Accolade{{Player: bob}}
	awaySub.HiChecks = []Accolade{{Player: bob, Score: 140}}

	f := newFixture().WithSubmission(SideHome, homeSub).WithSubmission(SideAway, awaySub)

	state := AccoladeListState(f, OneEighties)
	if state.AlreadyRecorded {
		t.Fatalf("unexpected already recorded")
	}
	if diff := cmp.Diff([]Side{SideHome, SideAway}, state.Actions()); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(homeSub.OneEighties, state.Home); diff != "" {
		t.Fatalf("home list mismatch (-want +got):\n%s", diff)
	}

	checks := AccoladeListState(f, HiChecks)
	if diff := cmp.Diff([]Side{SideAway}, checks.Actions()); diff != "" {
		t.Fatalf("hi-check actions mismatch (-want +got):\n%s", diff)
	}

	merged, err := MergeSideAccoladeList(f, OneEighties, SideAway)
	if err != nil {
		t.Fatalf("MergeSideAccoladeList: %v", err)
	}
	after := AccoladeListState(merged, OneEighties)
	if !after.AlreadyRecorded || len(after.Actions()) != 0 {
		t.Fatalf("state after merge = %+v, want recorded with no actions", after)
	}
	if diff := cmp.Diff(awaySub.OneEighties, merged.OneEighties); diff != "" {
		t.Fatalf("merged list mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAccoladeListErrors(t *testing.T) {
	f := newFixture()
	sub := newFixture()

	if _, err := MergeAccoladeList(f, AccoladeCategory("nine-darters"), &sub); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
	if _, err := MergeAccoladeList(f, HiChecks, &sub); !errors.Is(err, ErrNothingToMerge) {
		t.Fatalf("err = %v, want ErrNothingToMerge", err)
	}
	if _, err := MergeSideAccoladeList(f, HiChecks, SideHome); !errors.Is(err, ErrNoSubmission) {
		t.Fatalf("err = %v, want ErrNoSubmission", err)
	}
}

func TestAccoladeMergesAreFinal(t *testing.T) {
	alice, bob := player("alice"), player("bob")
	homeSub := newFixture()
	homeSub.OneEighties = []Accolade{{Player: alice}}
	homeSub.Home.ManOfTheMatch = &alice
	awaySub := newFixture()
	awaySub.OneEighties = []Accolade{{Player: bob}, {Player: bob}}
	awaySub.Away.ManOfTheMatch = &bob

	f := newFixture().WithSubmission(SideHome, homeSub).WithSubmission(SideAway, awaySub)
	f.OneEighties = []Accolade{{Player: alice}}
	f.Home.ManOfTheMatch = &alice

	tests := []struct {
		name  string
		merge func() (Fixture, error)
	}{
		{
			name:  "other side's 180s",
			merge: func() (Fixture, error) { return MergeSideAccoladeList(f, OneEighties, SideAway) },
		},
		{
			name:  "same side's 180s again",
			merge: func() (Fixture, error) { return MergeSideAccoladeList(f, OneEighties, SideHome) },
		},
		{
			name:  "180s from a detached submission",
			merge: func() (Fixture, error) { return MergeAccoladeList(f, OneEighties, &awaySub) },
		},
		{
			name:  "home man of the match again",
			merge: func() (Fixture, error) { return MergeManOfMatch(f, SideHome, &homeSub) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.merge(); !errors.Is(err, ErrAlreadyMerged) {
				t.Fatalf("err = %v, want ErrAlreadyMerged", err)
			}
		})
	}

	if len(f.OneEighties) != 1 || f.OneEighties[0].Player.ID != alice.ID {
		t.Fatalf("recorded 180s changed: %+v", f.OneEighties)
	}

	// The away side still has no man of the match and hi-checks are still open.
	got, err := MergeManOfMatch(f, SideAway, &awaySub)
	if err != nil {
		t.Fatalf("away MergeManOfMatch: %v", err)
	}
	if got.Away.ManOfTheMatch == nil || got.Away.ManOfTheMatch.ID != bob.ID {
		t.Fatalf("away man of the match = %+v, want bob", got.Away.ManOfTheMatch)
	}
	if _, err := MergeSideAccoladeList(f, HiChecks, SideAway); !errors.Is(err, ErrNothingToMerge) {
		t.Fatalf("hi-checks err = %v, want ErrNothingToMerge", err)
	}
}
