package clock

import (
	"time"

	"github.com/mcoot/puzzleboard/internal/model"
)

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct {
	loc *time.Location
}

// New creates a RealClock reporting time in loc (UTC when nil)
func New(loc *time.Location) *RealClock {
	if loc == nil {
		loc = time.UTC
	}
	return &RealClock{loc: loc}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today returns the calendar day the clock is currently in
func Today(c Clock) model.Day {
	return model.DayOf(c.Now())
}
