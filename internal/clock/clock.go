package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock is the device's local-time source. Tick advances it by one second;
// Sync rebases it from a fresh UTC instant. Between syncs time is pure
// tick counting, so it drifts but never stalls.
type Clock struct {
	zone  Zone
	ticks atomic.Int64

	mu        sync.RWMutex
	base      time.Time // local time at the last sync
	baseTicks int64     // tick count at the last sync
}

// New creates a Clock starting at the given local time.
func New(zone Zone, start time.Time) *Clock {
	return &Clock{zone: zone, base: start}
}

// Tick advances local time by one second. It is called from the timer
// context and must stay a single counter increment: no locks, no
// allocation, nothing that can block the control loop.
func (c *Clock) Tick() {
	c.ticks.Add(1)
}

// Now returns the current local time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	base, baseTicks := c.base, c.baseTicks
	c.mu.RUnlock()
	return base.Add(time.Duration(c.ticks.Load()-baseTicks) * time.Second)
}

// Hour returns the current local hour, 0..23.
func (c *Clock) Hour() int {
	return c.Now().Hour()
}

// Sync rebases local time from a UTC instant, applying the zone rules.
// The tick counter itself is never reset; the rebase records the count
// the new base corresponds to.
func (c *Clock) Sync(utc time.Time) {
	local := c.zone.ToLocal(utc)
	t := c.ticks.Load()
	c.mu.Lock()
	c.base = local
	c.baseTicks = t
	c.mu.Unlock()
}
