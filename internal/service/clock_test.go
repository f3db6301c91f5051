package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockZeroValueUsesWallClock(t *testing.T) {
	var c Clock
	before := time.Now()
	now := c.Now()

	assert.False(t, now.Before(before.Add(-time.Second)))
	assert.Equal(t, time.Local, c.Location())
}

func TestClockTodayFollowsLocation(t *testing.T) {
	instant := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC)
	jakarta := time.FixedZone("WIB", 7*60*60)

	assert.Equal(t, "2024-03-01", NewClock(func() time.Time { return instant }, time.UTC).Today())
	assert.Equal(t, "2024-03-02", NewClock(func() time.Time { return instant }, jakarta).Today())
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)
	c := FixedClock(instant)

	assert.True(t, c.Now().Equal(instant))
	assert.Equal(t, "2024-06-30", c.Today())
}
