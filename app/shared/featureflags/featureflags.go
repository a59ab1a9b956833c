// Package featureflags resolves named, configurable durations used to gate
// behavior such as when fixture scores become visible.
package featureflags

import (
	"context"
	"fmt"
	"time"
)

// ScoreVisibilityDelay holds scores back until this long after a fixture's date.
const ScoreVisibilityDelay = "ScoreVisibilityDelay"

// Lookup resolves a feature key to a delay. Unknown keys resolve to zero.
type Lookup interface {
	Delay(ctx context.Context, key string) (time.Duration, error)
}

// Static is a Lookup backed by a fixed map.
type Static map[string]time.Duration

// Delay implements Lookup.
func (s Static) Delay(_ context.Context, key string) (time.Duration, error) {
	d, ok := s[key]
	if !ok {
		return 0, nil
	}
	if d < 0 {
		return 0, fmt.Errorf("feature %s: negative delay %s", key, d)
	}
	return d, nil
}

var _ Lookup = Static(nil)
