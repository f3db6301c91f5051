package service

import (
	"time"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

// Clock supplies the current instant and the zone that decides calendar days.
// The zero value uses time.Now and the process local zone.
type Clock struct {
	nowFn func() time.Time
	loc   *time.Location
}

// NewClock builds a clock. A nil now defaults to time.Now, a nil loc to time.Local.
func NewClock(now func() time.Time, loc *time.Location) Clock {
	return Clock{nowFn: now, loc: loc}
}

// FixedClock always reports t, in t's location.
func FixedClock(t time.Time) Clock {
	return Clock{nowFn: func() time.Time { return t }, loc: t.Location()}
}

// Now returns the current instant in the clock's zone.
func (c Clock) Now() time.Time {
	now := time.Now
	if c.nowFn != nil {
		now = c.nowFn
	}
	return now().In(c.Location())
}

// Location returns the zone used for day boundaries.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Today returns the current calendar day as YYYY-MM-DD.
func (c Clock) Today() string {
	return c.Now().Format(models.DateLayout)
}
