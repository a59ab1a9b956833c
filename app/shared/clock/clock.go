package clock

import "time"

// Clock supplies the current instant. Score visibility and optimistic
// concurrency stamps read time through it rather than time.Now.
type Clock interface {
	NowUTC() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) NowUTC() time.Time { return time.Now().UTC() }

// AnchorClock always returns the instant it was created with.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates an AnchorClock. If t is the zero value the current
// real UTC time is used.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) NowUTC() time.Time { return c.anchor }
