package formatter

import "time"

// TimestampLayout renders date and time to the millisecond. Go truncates
// fractional seconds in layouts, so sub-millisecond precision is dropped
// rather than rounded.
const TimestampLayout = "2006-01-02 15:04:05,000"

// TimeStamper produces locale-independent timestamps in local time.
type TimeStamper struct {
	clock func() time.Time
}

// NewTimeStamper returns a TimeStamper reading the given clock.
// A nil clock uses time.Now.
func NewTimeStamper(clock func() time.Time) *TimeStamper {
	if clock == nil {
		clock = time.Now
	}
	return &TimeStamper{clock: clock}
}

// Now returns the current time formatted with TimestampLayout.
func (ts *TimeStamper) Now() string {
	return ts.Stamp(ts.clock())
}

// Stamp formats t with TimestampLayout without converting its zone.
func (ts *TimeStamper) Stamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
