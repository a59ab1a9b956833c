package fixturedomain

import (
	"fmt"

	"github.com/google/uuid"
)

// SubmissionState distinguishes a missing submission, a submission that left a
// slot blank, and a submission that filled it in.
type SubmissionState int

const (
	SubmissionAbsent SubmissionState = iota
	SubmissionEmpty
	SubmissionPopulated
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionEmpty:
		return "empty"
	case SubmissionPopulated:
		return "populated"
	default:
		return "absent"
	}
}

// MergeAction is an operation offered for a slot.
type MergeAction string

const (
	ActionAcceptHome   MergeAction = "accept-home"
	ActionAcceptAway   MergeAction = "accept-away"
	ActionAcceptAgreed MergeAction = "accept-agreed"
)

// SlotMergeState is the derived merge state of one slot.
type SlotMergeState struct {
	Index     int             `json:"index"`
	Category  Category        `json:"category"`
	Published bool            `json:"published"`
	Agreeing  bool            `json:"agreeing"`
	Home      SubmissionState `json:"home"`
	Away      SubmissionState `json:"away"`
	HomeSlot  *Match          `json:"homeSlot,omitempty"`
	AwaySlot  *Match          `json:"awaySlot,omitempty"`
}

// Proposed reports whether exactly one side filled the slot in.
func (s SlotMergeState) Proposed() bool {
	return (s.Home == SubmissionPopulated) != (s.Away == SubmissionPopulated)
}

// Actions lists what may be done with the slot. Published slots offer nothing;
// agreeing submissions offer a single combined accept.
func (s SlotMergeState) Actions() []MergeAction {
	if s.Published {
		return nil
	}
	if s.Agreeing {
		return []MergeAction{ActionAcceptAgreed}
	}
	var actions []MergeAction
	if s.Home == SubmissionPopulated {
		actions = append(actions, ActionAcceptHome)
	}
	if s.Away == SubmissionPopulated {
		actions = append(actions, ActionAcceptAway)
	}
	return actions
}

// SlotCategory returns the explicit category of a slot.
func SlotCategory(f Fixture, index int) Category {
	return OptionsFor(f, index).Category()
}

// SubmissionSlot returns the state of side's submission for a slot and, when
// populated, a copy of the submitted slot.
func SubmissionSlot(f Fixture, side Side, index int) (SubmissionState, *Match) {
	sub := f.Submission(side)
	if sub == nil {
		return SubmissionAbsent, nil
	}
	if index < 0 || index >= len(sub.Matches) || sub.Matches[index].IsEmpty() {
		return SubmissionEmpty, nil
	}
	m := sub.Matches[index].Clone()
	return SubmissionPopulated, &m
}

// SlotStates derives the merge state of every slot.
func SlotStates(f Fixture) []SlotMergeState {
	states := make([]SlotMergeState, f.SlotCount())
	for i := range states {
		home, homeSlot := SubmissionSlot(f, SideHome, i)
		away, awaySlot := SubmissionSlot(f, SideAway, i)
		states[i] = SlotMergeState{
			Index:     i,
			Category:  SlotCategory(f, i),
			Published: f.Slot(i).IsPublished(),
			Agreeing:  home == SubmissionPopulated && away == SubmissionPopulated && MatchesEqual(homeSlot, awaySlot),
			Home:      home,
			Away:      away,
			HomeSlot:  homeSlot,
			AwaySlot:  awaySlot,
		}
	}
	return states
}

// IsPublished reports whether any slot carries a published score.
func IsPublished(f Fixture) bool {
	for _, m := range f.Matches {
		if m.IsPublished() {
			return true
		}
	}
	return false
}

// MergeSlot returns a copy of f with proposed laid over slot index. Players
// and scores always take the proposed values; the slot identity and any
// live-scoring reference survive unless the proposal carries its own.
// Merging a result identical to an already published slot is a no-op.
func MergeSlot(f Fixture, index int, proposed Match) (Fixture, error) {
	if index < 0 || index >= f.SlotCount() {
		return Fixture{}, fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, index, f.SlotCount())
	}
	if err := ValidateMatch(proposed, OptionsFor(f, index)); err != nil {
		return Fixture{}, fmt.Errorf("slot %d: %w", index, err)
	}

	existing := f.Slot(index)
	if existing.IsPublished() && !MatchesEqual(&existing, &proposed) {
		return Fixture{}, fmt.Errorf("%w: slot %d", ErrSlotPublished, index)
	}

	out := f.Clone()
	for len(out.Matches) <= index {
		out.Matches = append(out.Matches, Match{})
	}
	out.Matches[index] = overlay(out.Matches[index], proposed.Clone())
	return out, nil
}

func overlay(existing, proposed Match) Match {
	merged := existing
	if proposed.ID != uuid.Nil && existing.ID == uuid.Nil {
		merged.ID = proposed.ID
	}
	merged.HomePlayers = proposed.HomePlayers
	merged.AwayPlayers = proposed.AwayPlayers
	merged.HomeScore = proposed.HomeScore
	merged.AwayScore = proposed.AwayScore
	if proposed.LiveScoring != nil {
		merged.LiveScoring = proposed.LiveScoring
	}
	return merged
}

// AcceptSubmission merges side's submitted slot into the fixture.
func AcceptSubmission(f Fixture, index int, side Side) (Fixture, error) {
	if !side.Valid() {
		return Fixture{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	if index < 0 || index >= f.SlotCount() {
		return Fixture{}, fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, index, f.SlotCount())
	}
	state, slot := SubmissionSlot(f, side, index)
	switch state {
	case SubmissionAbsent:
		return Fixture{}, fmt.Errorf("%w: %s", ErrNoSubmission, side)
	case SubmissionEmpty:
		return Fixture{}, fmt.Errorf("%w: %s slot %d", ErrSlotNotSubmitted, side, index)
	}
	return MergeSlot(f, index, *slot)
}

// AcceptAll merges every populated, unpublished slot of side's submission,
// plus that side's man of the match when the fixture has none yet.
func AcceptAll(f Fixture, side Side) (Fixture, error) {
	if !side.Valid() {
		return Fixture{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	sub := f.Submission(side)
	if sub == nil {
		return Fixture{}, fmt.Errorf("%w: %s", ErrNoSubmission, side)
	}

	out := f.Clone()
	merged := 0
	for i := 0; i < out.SlotCount(); i++ {
		if out.Slot(i).IsPublished() {
			continue
		}
		state, slot := SubmissionSlot(out, side, i)
		if state != SubmissionPopulated {
			continue
		}
		next, err := MergeSlot(out, i, *slot)
		if err != nil {
			return Fixture{}, err
		}
		out = next
		merged++
	}
	if ManOfMatchState(out, side).Status == MergeProposed {
		next, err := MergeManOfMatch(out, side, sub)
		if err != nil {
			return Fixture{}, err
		}
		out = next
		merged++
	}
	if merged == 0 {
		return Fixture{}, fmt.Errorf("%w: %s", ErrNothingToMerge, side)
	}
	return out, nil
}

// CommittedPlayers lists players side has already placed in other slots of
// the same category, in slot order without repeats.
func CommittedPlayers(f Fixture, side Side, category Category, exceptIndex int) []PlayerRef {
	var out []PlayerRef
	seen := make(map[uuid.UUID]struct{})
	for i, m := range f.Matches {
		if i == exceptIndex || SlotCategory(f, i) != category {
			continue
		}
		for _, p := range m.Players(side) {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Unpublish discards every merged result, accolade and man of the match while
// keeping slot identities, options and both submissions for a re-merge.
func Unpublish(f Fixture) Fixture {
	out := f.Clone()
	for i, m := range out.Matches {
		out.Matches[i] = Match{ID: m.ID}
	}
	out.OneEighties = nil
	out.HiChecks = nil
	out.Home.ManOfTheMatch = nil
	out.Away.ManOfTheMatch = nil
	return out
}
