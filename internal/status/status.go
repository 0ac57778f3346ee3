// Package status provides a thread-safe status tracker for the aqualed
// daemon. It is written by the run loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/mwoudenberg/aqualed/internal/logic"
)

// Source names what currently determines the lamp levels.
type Source string

const (
	SourceSchedule Source = "schedule"
	SourceOverride Source = "override"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs    int64
	ResyncMs  int64
	Broker    string
	HTTPAddr  string
	StorePath string
	NTPHost   string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Levels        logic.Levels
	Source        Source
	LocalTime     time.Time
	Synced        bool // at least one successful NTP sync
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	LogLines      int
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Source:    SourceSchedule,
			Config:    cfg,
		},
	}
}

// Update sets the applied levels, their source and the device-local time.
// Called from the run loop on every tick.
func (t *Tracker) Update(levels logic.Levels, src Source, localTime time.Time) {
	t.mu.Lock()
	t.snap.Levels = levels
	t.snap.Source = src
	t.snap.LocalTime = localTime
	t.mu.Unlock()
}

// SetSynced records whether an NTP sync has succeeded yet.
func (t *Tracker) SetSynced(synced bool) {
	t.mu.Lock()
	t.snap.Synced = synced
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetLogLines records the current debug log line count.
func (t *Tracker) SetLogLines(n int) {
	t.mu.Lock()
	t.snap.LogLines = n
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
