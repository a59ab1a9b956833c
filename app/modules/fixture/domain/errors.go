package fixturedomain

import "errors"

// Input-shape errors. Callers surface these rather than guessing data.
var (
	ErrSlotOutOfRange   = errors.New("slot index out of range")
	ErrNoSubmission     = errors.New("no submission from side")
	ErrSlotNotSubmitted = errors.New("submission has no data for slot")
	ErrNothingToMerge   = errors.New("submission has nothing to merge")
	ErrInvalidSide      = errors.New("invalid side")
	ErrInvalidCategory  = errors.New("invalid accolade category")
	ErrUnknownCategory  = errors.New("unknown match category")
	ErrInvalidScore     = errors.New("invalid match score")
	ErrPlayerCount      = errors.New("player count does not match players per side")
)

// ErrSlotPublished is returned when a different result is merged into a slot
// that already carries a published score.
var ErrSlotPublished = errors.New("slot already published")

// ErrAlreadyMerged is returned when an accolade list or a side's man of the
// match has already been recorded on the fixture.
var ErrAlreadyMerged = errors.New("already merged")
