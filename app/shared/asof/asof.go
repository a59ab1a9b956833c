// Package asof parses the point in time a standings view is taken at.
package asof

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const dateLayout = "2006-01-02"

// ErrUnrecognized is returned when no layout or phrase matches the input.
var ErrUnrecognized = errors.New("unrecognized point in time")

// Parser turns user input into a UTC instant.
type Parser struct {
	w   *when.Parser
	loc *time.Location
}

// NewParser creates a Parser that reads bare dates and phrases in loc.
// A nil loc means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, loc: loc}
}

// Parse accepts an RFC 3339 timestamp, a bare date, or an English phrase
// such as "last friday". A bare date means the end of that day so fixtures
// played on it are included.
func (p *Parser) Parse(input string, clk clock.Clock) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnrecognized
	}

	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseInLocation(dateLayout, input, p.loc); err == nil {
		return d.AddDate(0, 0, 1).UTC(), nil
	}

	r, err := p.w.Parse(strings.ToLower(input), clk.NowUTC().In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, input)
	}
	return r.Time.UTC(), nil
}
