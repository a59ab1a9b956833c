package fixturedomain

import (
	"fmt"
	"slices"
)

// AccoladeCategory names a list-valued accolade.
type AccoladeCategory string

const (
	OneEighties AccoladeCategory = "180s"
	HiChecks    AccoladeCategory = "hi-checks"
)

// Valid reports whether c is a known category.
func (c AccoladeCategory) Valid() bool { return c == OneEighties || c == HiChecks }

// MergeStatus describes whether an accolade can be merged.
type MergeStatus string

const (
	MergeAlreadyMerged  MergeStatus = "already-merged"
	MergeNothingToMerge MergeStatus = "nothing-to-merge"
	MergeProposed       MergeStatus = "proposed"
)

// ManOfMatchProposal is the merge state of one side's man of the match.
type ManOfMatchProposal struct {
	Side   Side        `json:"side"`
	Status MergeStatus `json:"status"`
	Player *PlayerRef  `json:"player,omitempty"`
}

// ManOfMatchState reports the man-of-the-match merge state for side. Only
// side's own submission is consulted: each side attests to its own nominee.
func ManOfMatchState(f Fixture, side Side) ManOfMatchProposal {
	state := ManOfMatchProposal{Side: side}
	if current := f.Team(side).ManOfTheMatch; current != nil {
		state.Status = MergeAlreadyMerged
		state.Player = clonePtr(current)
		return state
	}
	sub := f.Submission(side)
	if sub == nil || sub.Team(side).ManOfTheMatch == nil {
		state.Status = MergeNothingToMerge
		return state
	}
	state.Status = MergeProposed
	state.Player = clonePtr(sub.Team(side).ManOfTheMatch)
	return state
}

// MergeManOfMatch copies side's man of the match from submission into a copy
// of f. Values submission holds for the other side are ignored. Once side has
// a man of the match, further merges fail with ErrAlreadyMerged.
func MergeManOfMatch(f Fixture, side Side, submission *Fixture) (Fixture, error) {
	if !side.Valid() {
		return Fixture{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if f.Team(side).ManOfTheMatch != nil {
		return Fixture{}, fmt.Errorf("%w: %s man of the match", ErrAlreadyMerged, side)
	}
	if submission == nil {
		return Fixture{}, fmt.Errorf("%w: %s", ErrNoSubmission, side)
	}
	nominee := submission.Team(side).ManOfTheMatch
	if nominee == nil {
		return Fixture{}, fmt.Errorf("%w: %s man of the match", ErrNothingToMerge, side)
	}
	out := f.Clone()
	out.team(side).ManOfTheMatch = clonePtr(nominee)
	return out, nil
}

// AccoladeListProposal is the merge state of a list-valued accolade.
type AccoladeListProposal struct {
	Category        AccoladeCategory `json:"category"`
	AlreadyRecorded bool             `json:"alreadyRecorded"`
	Recorded        []Accolade       `json:"recorded,omitempty"`
	Home            []Accolade       `json:"home,omitempty"`
	Away            []Accolade       `json:"away,omitempty"`
}

// Actions lists the sides whose list may be merged.
func (p AccoladeListProposal) Actions() []Side {
	if p.AlreadyRecorded {
		return nil
	}
	var sides []Side
	if len(p.Home) > 0 {
		sides = append(sides, SideHome)
	}
	if len(p.Away) > 0 {
		sides = append(sides, SideAway)
	}
	return sides
}

// AccoladeListState surfaces each submission's list for category unless the
// fixture already has one recorded.
func AccoladeListState(f Fixture, category AccoladeCategory) AccoladeListProposal {
	state := AccoladeListProposal{Category: category}
	if recorded := f.Accolades(category); len(recorded) > 0 {
		state.AlreadyRecorded = true
		state.Recorded = slices.Clone(recorded)
		return state
	}
	if sub := f.HomeSubmission; sub != nil {
		state.Home = slices.Clone(sub.Accolades(category))
	}
	if sub := f.AwaySubmission; sub != nil {
		state.Away = slices.Clone(sub.Accolades(category))
	}
	return state
}

// MergeAccoladeList sets the fixture's list for category wholesale from
// submission. There is no item-level merge, and a recorded list is final
// until the fixture is unpublished.
func MergeAccoladeList(f Fixture, category AccoladeCategory, submission *Fixture) (Fixture, error) {
	if err := checkAccoladeOpen(f, category); err != nil {
		return Fixture{}, err
	}
	if submission == nil {
		return Fixture{}, ErrNoSubmission
	}
	list := submission.Accolades(category)
	if len(list) == 0 {
		return Fixture{}, fmt.Errorf("%w: %s", ErrNothingToMerge, category)
	}
	out := f.Clone()
	if category == OneEighties {
		out.OneEighties = slices.Clone(list)
	} else {
		out.HiChecks = slices.Clone(list)
	}
	return out, nil
}

// MergeSideAccoladeList merges side's submitted list for category.
func MergeSideAccoladeList(f Fixture, category AccoladeCategory, side Side) (Fixture, error) {
	if !side.Valid() {
		return Fixture{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if err := checkAccoladeOpen(f, category); err != nil {
		return Fixture{}, err
	}
	sub := f.Submission(side)
	if sub == nil {
		return Fixture{}, fmt.Errorf("%w: %s", ErrNoSubmission, side)
	}
	return MergeAccoladeList(f, category, sub)
}

func checkAccoladeOpen(f Fixture, category AccoladeCategory) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if len(f.Accolades(category)) > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyMerged, category)
	}
	return nil
}
