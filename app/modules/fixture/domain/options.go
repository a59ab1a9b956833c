package fixturedomain

import "fmt"

// Category is the explicit kind of a slot, derived from players-per-side.
type Category string

const (
	Singles Category = "singles"
	Pairs   Category = "pairs"
	Triples Category = "triples"
)

// Categories lists every category in display order.
var Categories = []Category{Singles, Pairs, Triples}

// PlayersPerSide returns how many players each side fields.
func (c Category) PlayersPerSide() int {
	switch c {
	case Pairs:
		return 2
	case Triples:
		return 3
	default:
		return 1
	}
}

// CategoryFor maps a players-per-side count to its category.
func CategoryFor(playersPerSide int) (Category, error) {
	switch playersPerSide {
	case 1:
		return Singles, nil
	case 2:
		return Pairs, nil
	case 3:
		return Triples, nil
	}
	return "", fmt.Errorf("%w: %d players per side", ErrUnknownCategory, playersPerSide)
}

// MatchOptions configure one slot.
type MatchOptions struct {
	LegsToWin      int `json:"legsToWin"`
	StartingScore  int `json:"startingScore"`
	PlayersPerSide int `json:"playersPerSide"`
}

// Category returns the slot category; unknown counts fall back to singles.
func (o MatchOptions) Category() Category {
	c, err := CategoryFor(o.PlayersPerSide)
	if err != nil {
		return Singles
	}
	return c
}

var categoryDefaults = map[Category]MatchOptions{
	Singles: {LegsToWin: 5, StartingScore: 501, PlayersPerSide: 1},
	Pairs:   {LegsToWin: 3, StartingScore: 501, PlayersPerSide: 2},
	Triples: {LegsToWin: 3, StartingScore: 601, PlayersPerSide: 3},
}

// defaultLayout is five singles, two pairs and one triples.
var defaultLayout = []Category{Singles, Singles, Singles, Singles, Singles, Pairs, Pairs, Triples}

// DefaultOptions returns the documented defaults for a category.
func DefaultOptions(c Category) MatchOptions {
	return categoryDefaults[c]
}

// DefaultMatchOptions returns options for the standard eight-slot layout.
func DefaultMatchOptions() []MatchOptions {
	out := make([]MatchOptions, len(defaultLayout))
	for i, c := range defaultLayout {
		out[i] = categoryDefaults[c]
	}
	return out
}

// OptionsFor resolves the options for a slot. Missing or partial options are
// completed from the defaults of the slot's layout position, since historical
// fixtures may predate options being recorded.
func OptionsFor(f Fixture, index int) MatchOptions {
	fallback := Singles
	if index >= 0 && index < len(defaultLayout) {
		fallback = defaultLayout[index]
	}
	if index < 0 || index >= len(f.MatchOptions) {
		return categoryDefaults[fallback]
	}
	return CompleteOptions(f.MatchOptions[index], fallback)
}

// CompleteOptions fills unset fields of opts. A known players-per-side picks
// its own category's defaults, otherwise fallback's are used.
func CompleteOptions(opts MatchOptions, fallback Category) MatchOptions {
	defaults := categoryDefaults[fallback]
	if c, err := CategoryFor(opts.PlayersPerSide); err == nil {
		defaults = categoryDefaults[c]
	} else {
		opts.PlayersPerSide = defaults.PlayersPerSide
	}
	if opts.LegsToWin <= 0 {
		opts.LegsToWin = defaults.LegsToWin
	}
	if opts.StartingScore <= 0 {
		opts.StartingScore = defaults.StartingScore
	}
	return opts
}
